package testctl

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/rest"
	"coaching-admin-client/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// Form is the local test form. Title, positive full marks, class, and
// subject are required; the due date is optional but must be a real
// YYYY-MM-DD date when present. Attachments are optional on edit, where
// omitting one keeps the stored file server-side.
type Form struct {
	Title        string  `validate:"required"`
	FullMarks    float64 `validate:"required,gt=0"`
	Class        string  `validate:"required"`
	Subject      string  `validate:"required"`
	Instructions string  `validate:"-"`
	DueDate      string  `validate:"-"`
	Active       bool    `validate:"-"`
	Question     *Staged `validate:"-"`
	Answer       *Staged `validate:"-"`
}

// Controller drives test creation and editing for one batch at a time.
// The subject list comes from the batch-subjects endpoint so the form can
// only offer subjects the signed-in teacher actually carries.
type Controller struct {
	client   *rest.Client
	resolver *Resolver
	recorder journal.Recorder
	validate *validator.Validate
	log      zerolog.Logger

	open     bool
	mode     FormMode
	editID   string
	batchID  string
	classes  []string
	subjects []string
	form     Form
}

func NewController(client *rest.Client, resolver *Resolver, recorder journal.Recorder) *Controller {
	return &Controller{
		client:   client,
		resolver: resolver,
		recorder: recorder,
		validate: validator.New(),
		log:      logger.Component("test"),
	}
}

// OpenForBatch starts a create form scoped to the batch. The subject
// list is fetched up front; failure to load it aborts the open so the
// form never offers stale choices.
func (c *Controller) OpenForBatch(ctx context.Context, b model.Batch) error {
	subjects, err := c.LoadSubjects(ctx, b.ID)
	if err != nil {
		return err
	}
	c.open = true
	c.mode = ModeCreate
	c.editID = ""
	c.batchID = b.ID
	c.classes = append([]string(nil), b.Classes...)
	c.subjects = subjects
	c.form = Form{Active: true}
	return nil
}

// OpenForEdit pre-populates the form from an existing test.
func (c *Controller) OpenForEdit(ctx context.Context, b model.Batch, t model.Test) error {
	subjects, err := c.LoadSubjects(ctx, b.ID)
	if err != nil {
		return err
	}
	c.open = true
	c.mode = ModeEdit
	c.editID = t.ID
	c.batchID = b.ID
	c.classes = append([]string(nil), b.Classes...)
	c.subjects = subjects
	c.form = Form{
		Title:        t.Title,
		FullMarks:    t.FullMarks,
		Class:        t.Class,
		Subject:      t.Subject,
		Instructions: t.Instructions,
		DueDate:      t.DueDate,
		Active:       t.Active,
	}
	return nil
}

func (c *Controller) Close() {
	c.open = false
	c.form = Form{}
	c.editID = ""
	c.batchID = ""
	c.classes = nil
	c.subjects = nil
}

func (c *Controller) IsOpen() bool       { return c.open }
func (c *Controller) Mode() FormMode     { return c.mode }
func (c *Controller) Form() *Form        { return &c.form }
func (c *Controller) Subjects() []string { return c.subjects }

// LoadSubjects fetches the subjects offered to the caller within a
// batch.
func (c *Controller) LoadSubjects(ctx context.Context, batchID string) ([]string, error) {
	var subjects []string
	if err := c.client.Get(ctx, "/batches/"+batchID+"/subjects", &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// Validate checks the form without touching the network.
func (c *Controller) Validate() error {
	if err := c.validate.Struct(&c.form); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Value:   fe.Value(),
				Message: fieldMessage(fe),
			}
		}
		return err
	}

	if !contains(c.classes, c.form.Class) {
		return errors.ValidationError{Field: "class", Value: c.form.Class, Message: "class is not part of this batch"}
	}
	if !contains(c.subjects, c.form.Subject) {
		return errors.ValidationError{Field: "subject", Value: c.form.Subject, Message: "subject is not offered in this batch"}
	}
	if c.form.DueDate != "" && !IsValidDate(c.form.DueDate) {
		return errors.ValidationError{Field: "dueDate", Value: c.form.DueDate, Message: "due date must be a valid YYYY-MM-DD date"}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		return "title is required"
	case "FullMarks":
		return "full marks must be a positive number"
	case "Class":
		return "a class must be selected"
	case "Subject":
		return "a subject must be selected"
	}
	return "this field is required"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Save validates and submits the form as multipart, resolving staged
// attachments only now. On success the form closes; on failure it stays
// populated for retry.
func (c *Controller) Save(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	fields := map[string]string{
		"title":        c.form.Title,
		"fullMarks":    strconv.FormatFloat(c.form.FullMarks, 'f', -1, 64),
		"batchId":      c.batchID,
		"class":        c.form.Class,
		"subject":      c.form.Subject,
		"instructions": c.form.Instructions,
		"dueDate":      c.form.DueDate,
		"isActive":     strconv.FormatBool(c.form.Active),
	}

	files, err := c.stagedParts(ctx)
	if err != nil {
		return err
	}

	method, path, action := http.MethodPost, "/tests", "create"
	if c.mode == ModeEdit {
		method, path, action = http.MethodPut, "/tests/"+c.editID, "update"
	}

	start := time.Now()
	err = c.client.DoMultipart(ctx, method, path, fields, files, nil)
	c.record(ctx, action, c.form.Title, start, err)
	if err != nil {
		c.log.Error().Err(err).Str("title", c.form.Title).Msg("Failed to save test")
		return err
	}

	c.log.Info().Str("title", c.form.Title).Str("mode", string(c.mode)).Msg("Test saved")
	c.Close()
	return nil
}

func (c *Controller) stagedParts(ctx context.Context) ([]rest.FilePart, error) {
	var files []rest.FilePart
	if c.form.Question != nil {
		part, err := c.resolver.Resolve(ctx, "questionPdf", c.form.Question)
		if err != nil {
			return nil, err
		}
		files = append(files, part)
	}
	if c.form.Answer != nil {
		part, err := c.resolver.Resolve(ctx, "answerPdf", c.form.Answer)
		if err != nil {
			return nil, err
		}
		files = append(files, part)
	}
	return files, nil
}

// AssignStudents replaces the test's complete assigned-student list. An
// empty list is a deliberate unassign-all, not an error.
func (c *Controller) AssignStudents(ctx context.Context, testID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		c.log.Info().Str("test_id", testID).Msg("Unassigning all students from test")
	}

	start := time.Now()
	err := c.client.DoJSON(ctx, http.MethodPut, "/tests/"+testID+"/assign-students",
		model.TestAssignmentRequest{StudentIDs: studentIDs}, nil)
	c.record(ctx, "assign-students", testID, start, err)
	if err != nil {
		return err
	}

	c.log.Info().Str("test_id", testID).Int("count", len(studentIDs)).Msg("Test assignment replaced")
	return nil
}

// AvailableStudents fetches students eligible for a test, scoped by
// class. The class drives the query, so every class change is a fresh
// server round trip.
func (c *Controller) AvailableStudents(ctx context.Context, testID, class string) ([]model.User, error) {
	params := url.Values{}
	params.Add("class", class)

	var students []model.User
	if err := c.client.Get(ctx, "/tests/"+testID+"/available-students?"+params.Encode(), &students); err != nil {
		return nil, err
	}
	return students, nil
}

// LoadTests lists tests for a batch and subject.
func (c *Controller) LoadTests(ctx context.Context, batchID, subject string) ([]model.Test, error) {
	params := url.Values{}
	params.Add("batchId", batchID)
	params.Add("subject", subject)

	var tests []model.Test
	if err := c.client.Get(ctx, "/tests?"+params.Encode(), &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// Delete removes a test after the operator confirmed.
func (c *Controller) Delete(ctx context.Context, testID string, confirmed bool) error {
	if !confirmed {
		return errors.ErrConfirmRequired
	}

	start := time.Now()
	err := c.client.DoJSON(ctx, http.MethodDelete, "/tests/"+testID, nil, nil)
	c.record(ctx, "delete", testID, start, err)
	return err
}

func (c *Controller) record(ctx context.Context, action, target string, start time.Time, opErr error) {
	entry := journal.Entry{
		Entity:   "test",
		Action:   action,
		Target:   target,
		Outcome:  journal.OutcomeOK,
		Duration: time.Since(start),
	}
	if opErr != nil {
		entry.Outcome = journal.OutcomeFailed
		entry.Message = opErr.Error()
	}
	if err := c.recorder.Record(ctx, entry); err != nil {
		c.log.Warn().Err(err).Msg("Failed to record journal entry")
	}
}
