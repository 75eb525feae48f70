package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"coaching-admin-client/internal/batch"
	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/rest"
	"coaching-admin-client/internal/testctl"
	"coaching-admin-client/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler is the local admin facade: a thin HTTP surface over the
// directory, form, assignment, and test controllers, so operator tooling
// can drive them without linking the module.
type Handler struct {
	client   *rest.Client
	dir      *batch.Directory
	resolver *testctl.Resolver
	recorder journal.Recorder
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(client *rest.Client, dir *batch.Directory, resolver *testctl.Resolver, recorder journal.Recorder, cfg *config.Config) *Handler {
	return &Handler{
		client:   client,
		dir:      dir,
		resolver: resolver,
		recorder: recorder,
		cfg:      cfg,
		log:      logger.Component("api"),
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	if err := h.dir.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListBatches(c *gin.Context) {
	if err := h.dir.LoadBatches(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.dir.Batches()})
}

func (h *Handler) EligibleUsers(c *gin.Context) {
	h.dir.LoadEligibleUsers(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"students": h.dir.EligibleStudents(),
			"teachers": h.dir.EligibleTeachers(),
		},
	})
}

func (h *Handler) AvailableUsers(c *gin.Context) {
	students, teachers, err := h.dir.AvailableUsersForBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"students": students, "teachers": teachers},
	})
}

type batchRequest struct {
	Name        string          `json:"batchName"`
	Classes     []string        `json:"classes"`
	Category    model.Category  `json:"category"`
	Subjects    []model.Subject `json:"subjects"`
	StudentIDs  []string        `json:"students"`
	TeacherIDs  []string        `json:"teachers"`
	Schedule    string          `json:"schedule"`
	Description string          `json:"description"`
	Active      bool            `json:"isActive"`
}

func (h *Handler) CreateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	form := batch.NewFormController(h.client, h.dir, h.recorder)
	form.Open()
	form.SetForm(h.toForm(req))
	if err := form.Save(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Batch created"})
}

func (h *Handler) UpdateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	existing, ok := h.dir.BatchByID(c.Param("id"))
	if !ok {
		existing = model.Batch{ID: c.Param("id")}
	}

	form := batch.NewFormController(h.client, h.dir, h.recorder)
	form.OpenForEdit(existing)
	form.SetForm(h.toForm(req))
	if err := form.Save(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Batch updated"})
}

func (h *Handler) toForm(req batchRequest) batch.Form {
	return batch.Form{
		Name:        req.Name,
		Classes:     req.Classes,
		Category:    req.Category,
		Subjects:    req.Subjects,
		StudentIDs:  req.StudentIDs,
		TeacherIDs:  req.TeacherIDs,
		Schedule:    req.Schedule,
		Description: req.Description,
		Active:      req.Active,
	}
}

func (h *Handler) DeleteBatch(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	form := batch.NewFormController(h.client, h.dir, h.recorder)
	if err := form.Delete(c.Request.Context(), c.Param("id"), confirmed); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Batch deleted"})
}

type assignRequest struct {
	UserIDs []string `json:"userIds"`
}

func (h *Handler) mutateAssignment(c *gin.Context, apply func(*batch.Assigner, []string) error) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	assigner := batch.NewAssigner(h.client, h.dir, h.recorder)
	if err := apply(assigner, req.UserIDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) AssignStudents(c *gin.Context) {
	id := c.Param("id")
	h.mutateAssignment(c, func(a *batch.Assigner, ids []string) error {
		return a.AssignStudents(c.Request.Context(), id, ids)
	})
}

func (h *Handler) AssignTeachers(c *gin.Context) {
	id := c.Param("id")
	h.mutateAssignment(c, func(a *batch.Assigner, ids []string) error {
		return a.AssignTeachers(c.Request.Context(), id, ids)
	})
}

func (h *Handler) RemoveStudents(c *gin.Context) {
	id := c.Param("id")
	h.mutateAssignment(c, func(a *batch.Assigner, ids []string) error {
		return a.RemoveStudents(c.Request.Context(), id, ids)
	})
}

func (h *Handler) RemoveTeachers(c *gin.Context) {
	id := c.Param("id")
	h.mutateAssignment(c, func(a *batch.Assigner, ids []string) error {
		return a.RemoveTeachers(c.Request.Context(), id, ids)
	})
}

type testRequest struct {
	Title        string          `json:"title"`
	FullMarks    float64         `json:"fullMarks"`
	Class        string          `json:"class"`
	Subject      string          `json:"subject"`
	Instructions string          `json:"instructions"`
	DueDate      string          `json:"dueDate"`
	Active       bool            `json:"isActive"`
	Question     *testctl.Staged `json:"questionPdf"`
	Answer       *testctl.Staged `json:"answerPdf"`
}

func (h *Handler) saveTest(c *gin.Context, testID string) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	b, ok := h.dir.BatchByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Batch not found"})
		return
	}

	ctrl := testctl.NewController(h.client, h.resolver, h.recorder)
	var err error
	if testID == "" {
		err = ctrl.OpenForBatch(c.Request.Context(), b)
	} else {
		err = ctrl.OpenForEdit(c.Request.Context(), b, model.Test{ID: testID})
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	*ctrl.Form() = testctl.Form{
		Title:        req.Title,
		FullMarks:    req.FullMarks,
		Class:        req.Class,
		Subject:      req.Subject,
		Instructions: req.Instructions,
		DueDate:      req.DueDate,
		Active:       req.Active,
		Question:     req.Question,
		Answer:       req.Answer,
	}

	if err := ctrl.Save(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test saved"})
}

func (h *Handler) CreateTest(c *gin.Context) { h.saveTest(c, "") }
func (h *Handler) UpdateTest(c *gin.Context) { h.saveTest(c, c.Param("testId")) }

func (h *Handler) ListTests(c *gin.Context) {
	ctrl := testctl.NewController(h.client, h.resolver, h.recorder)
	tests, err := ctrl.LoadTests(c.Request.Context(), c.Param("id"), c.Query("subject"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tests})
}

func (h *Handler) DeleteTest(c *gin.Context) {
	ctrl := testctl.NewController(h.client, h.resolver, h.recorder)
	confirmed := c.Query("confirm") == "true"
	if err := ctrl.Delete(c.Request.Context(), c.Param("id"), confirmed); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test deleted"})
}

type testAssignRequest struct {
	StudentIDs []string `json:"assignedStudents"`
}

// AssignTestStudents replaces the full assignment list; an empty list is
// a deliberate unassign-all.
func (h *Handler) AssignTestStudents(c *gin.Context) {
	var req testAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	ctrl := testctl.NewController(h.client, h.resolver, h.recorder)
	if err := ctrl.AssignStudents(c.Request.Context(), c.Param("id"), req.StudentIDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) TestAvailableStudents(c *gin.Context) {
	ctrl := testctl.NewController(h.client, h.resolver, h.recorder)
	students, err := ctrl.AvailableStudents(c.Request.Context(), c.Param("id"), c.Query("class"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": students})
}

type dppRequest struct {
	Title    string          `json:"title"`
	Class    string          `json:"class"`
	Subject  string          `json:"subject"`
	Active   bool            `json:"isActive"`
	Question *testctl.Staged `json:"questionPdf"`
	Answer   *testctl.Staged `json:"answerPdf"`
}

func (h *Handler) saveDPP(c *gin.Context, dppID string) {
	var req dppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	b, ok := h.dir.BatchByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Batch not found"})
		return
	}

	form := testctl.DPPForm{
		Title:    req.Title,
		Class:    req.Class,
		Subject:  req.Subject,
		Active:   req.Active,
		Question: req.Question,
		Answer:   req.Answer,
	}

	ctrl := testctl.NewDPPController(h.client, h.resolver, h.recorder)
	var err error
	if dppID == "" {
		err = ctrl.Create(c.Request.Context(), b, form)
	} else {
		err = ctrl.Update(c.Request.Context(), b, dppID, form)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "DPP saved"})
}

func (h *Handler) CreateDPP(c *gin.Context) { h.saveDPP(c, "") }
func (h *Handler) UpdateDPP(c *gin.Context) { h.saveDPP(c, c.Param("dppId")) }

func (h *Handler) RecentJournal(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid limit"})
		return
	}

	entries, err := h.recorder.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read journal")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Journal unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr errors.ValidationError
	var apiErr errors.APIError

	switch {
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Message})
	case stderrors.Is(err, errors.ErrNothingSelected),
		stderrors.Is(err, errors.ErrNoAssignedUsers),
		stderrors.Is(err, errors.ErrConfirmRequired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case stderrors.Is(err, errors.ErrNoCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
	case stderrors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{"success": false, "message": apiErr.Message})
	default:
		h.log.Error().Err(err).Msg("Backend call failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": err.Error()})
	}
}
