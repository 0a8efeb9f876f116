package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
	"github.com/iliyamo/lab-freezer-inventory/internal/queue"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
	queue_publisher "github.com/iliyamo/lab-freezer-inventory/internal/service"
)

// SampleHandler manages samples.  Every mutation runs through SampleRepo so
// the audit row commits with the change; after the commit a secondary audit
// event is published to the broker on a best-effort basis.
type SampleHandler struct {
	Samples *repository.SampleRepo
	Boxes   *repository.BoxRepo
}

func NewSampleHandler(s *repository.SampleRepo, b *repository.BoxRepo) *SampleHandler {
	return &SampleHandler{Samples: s, Boxes: b}
}

type sampleCreateReq struct {
	SampleName string `json:"sample_name"`
	SampleType string `json:"sample_type"`
	Well       string `json:"well"`
	Owner      string `json:"owner"`
	Notes      string `json:"notes"`
	Species    string `json:"species"`
	Resistance string `json:"resistance"`
	Regulation string `json:"regulation"`
}

func (r *sampleCreateReq) validate() string {
	r.SampleName = strings.TrimSpace(r.SampleName)
	if r.SampleName == "" {
		return "sample_name required"
	}
	if r.Well == "" {
		return "well required"
	}
	if r.SampleType == "" {
		r.SampleType = "Other"
	}
	if !model.ValidSampleType(r.SampleType) {
		return "sample_type must be one of " + strings.Join(model.SampleTypes, ", ")
	}
	return ""
}

func (r *sampleCreateReq) toModel() *model.Sample {
	return &model.Sample{
		SampleName: r.SampleName,
		SampleType: r.SampleType,
		Well:       r.Well,
		Owner:      r.Owner,
		Notes:      r.Notes,
		Species:    r.Species,
		Resistance: r.Resistance,
		Regulation: r.Regulation,
	}
}

// publishSampleAudit is a seam for tests; production code publishes to the
// broker.
var publishSampleAudit = queue_publisher.PublishSampleAudit

// publishAudit sends a secondary audit event to the broker.  The durable
// sample_history row is already committed; a broker outage here is logged by
// the publisher and otherwise ignored.
func publishAudit(actor repository.Actor, action string, s *model.Sample, field, oldV, newV string) {
	ev := queue.SampleAuditEvent{
		SampleID:   s.ID,
		Action:     action,
		Field:      field,
		OldValue:   oldV,
		NewValue:   newV,
		UserID:     actor.ID,
		Username:   actor.Username,
		Freezer:    s.FreezerName,
		Rack:       s.RackID,
		Box:        s.BoxID,
		Well:       s.Well,
		SampleName: s.SampleName,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = publishSampleAudit(ctx, ev)
	}()
}

func sampleIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// Add stores one sample in the box named by the path.
func (h *SampleHandler) Add(c echo.Context) error {
	var req sampleCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	box, err := h.Boxes.GetByKey(ctx, c.Param("box"), c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}

	actor := getActor(c)
	s := req.toModel()
	if err := h.Samples.Add(ctx, actor, box, s); err != nil {
		return writeRepoErr(c, err)
	}
	publishAudit(actor, model.ActionCreated, s, "", "", "")
	return c.JSON(http.StatusCreated, toSampleResp(s))
}

// AddBulk stores several samples into one box atomically: either every entry
// lands or none do, so a half-imported plate can never occur.
func (h *SampleHandler) AddBulk(c echo.Context) error {
	var req struct {
		Samples []sampleCreateReq `json:"samples"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Samples) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "samples required"})
	}
	if len(req.Samples) > 500 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 500 samples per batch"})
	}
	samples := make([]*model.Sample, len(req.Samples))
	for i := range req.Samples {
		if msg := req.Samples[i].validate(); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry " + strconv.Itoa(i) + ": " + msg})
		}
		samples[i] = req.Samples[i].toModel()
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	box, err := h.Boxes.GetByKey(ctx, c.Param("box"), c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}

	actor := getActor(c)
	if err := h.Samples.AddBulk(ctx, actor, box, samples); err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]sampleResp, len(samples))
	for i, s := range samples {
		publishAudit(actor, model.ActionCreated, s, "", "", "")
		out[i] = toSampleResp(s)
	}
	return c.JSON(http.StatusCreated, echo.Map{"samples": out, "count": len(out)})
}

// ListByBox returns the samples of the box named by the path.
func (h *SampleHandler) ListByBox(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	samples, err := h.Samples.ListByBox(ctx, c.Param("box"), c.Param("rack"), c.Param("freezer"))
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"samples": toSampleResps(samples)})
}

// Get returns one sample by id.
func (h *SampleHandler) Get(c echo.Context) error {
	id, err := sampleIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sample id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Samples.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toSampleResp(s))
}

// Update changes sample metadata.  Omitted fields keep their value; location
// changes must go through Move.  Each changed field lands in the audit trail.
func (h *SampleHandler) Update(c echo.Context) error {
	id, err := sampleIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sample id"})
	}
	var req struct {
		SampleName *string `json:"sample_name"`
		SampleType *string `json:"sample_type"`
		Owner      *string `json:"owner"`
		Notes      *string `json:"notes"`
		Species    *string `json:"species"`
		Resistance *string `json:"resistance"`
		Regulation *string `json:"regulation"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SampleType != nil && !model.ValidSampleType(*req.SampleType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sample_type must be one of " + strings.Join(model.SampleTypes, ", ")})
	}
	if req.SampleName != nil && strings.TrimSpace(*req.SampleName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sample_name cannot be empty"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Samples.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	next := *cur
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&next.SampleName, req.SampleName)
	apply(&next.SampleType, req.SampleType)
	apply(&next.Owner, req.Owner)
	apply(&next.Notes, req.Notes)
	apply(&next.Species, req.Species)
	apply(&next.Resistance, req.Resistance)
	apply(&next.Regulation, req.Regulation)

	actor := getActor(c)
	updated, err := h.Samples.Update(ctx, actor, id, &next)
	if err != nil {
		return writeRepoErr(c, err)
	}
	publishAudit(actor, model.ActionUpdated, updated, "", "", "")
	return c.JSON(http.StatusOK, toSampleResp(updated))
}

// Move relocates a sample to another box/well.
func (h *SampleHandler) Move(c echo.Context) error {
	id, err := sampleIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sample id"})
	}
	var req struct {
		FreezerName string `json:"freezer_name"`
		RackID      string `json:"rack_id"`
		BoxID       string `json:"box_id"`
		Well        string `json:"well"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FreezerName == "" || req.RackID == "" || req.BoxID == "" || req.Well == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "freezer_name/rack_id/box_id/well required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	box, err := h.Boxes.GetByKey(ctx, req.BoxID, req.RackID, req.FreezerName)
	if err != nil {
		return writeRepoErr(c, err)
	}

	// Snapshot the current location first so the broker event can carry the
	// same old/new pair as the durable history row.
	cur, err := h.Samples.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	oldLoc := cur.FreezerName + "/" + cur.RackID + "/" + cur.BoxID + "/" + cur.Well

	actor := getActor(c)
	s, err := h.Samples.Move(ctx, actor, id, box, req.Well)
	if err != nil {
		return writeRepoErr(c, err)
	}
	newLoc := s.FreezerName + "/" + s.RackID + "/" + s.BoxID + "/" + s.Well
	if newLoc != oldLoc {
		publishAudit(actor, model.ActionMoved, s, "location", oldLoc, newLoc)
	}
	return c.JSON(http.StatusOK, toSampleResp(s))
}

// Delete removes a sample.  Its earlier audit rows survive, so the trail
// still shows where the sample lived and who removed it.
func (h *SampleHandler) Delete(c echo.Context) error {
	id, err := sampleIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sample id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor := getActor(c)
	s, err := h.Samples.Delete(ctx, actor, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	publishAudit(actor, model.ActionDeleted, s, "", "", "")
	return c.NoContent(http.StatusNoContent)
}
