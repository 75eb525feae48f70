package batch

import (
	"context"
	stderrors "errors"
	"net/http"
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

// Form is the local, not-yet-submitted batch state. Name, at least one
// class, and a category are the only required fields.
type Form struct {
	Name        string          `validate:"required"`
	Classes     []string        `validate:"required,min=1"`
	Category    model.Category  `validate:"required,oneof=jee neet boards"`
	Subjects    []model.Subject `validate:"-"`
	StudentIDs  []string        `validate:"-"`
	TeacherIDs  []string        `validate:"-"`
	Schedule    string          `validate:"-"`
	Description string          `validate:"-"`
	Active      bool            `validate:"-"`
}

// FormController runs the create/edit dialog lifecycle: open a form,
// edit it locally, validate, submit, and reload the directory on
// success. Class and subject edits stay local until Save.
type FormController struct {
	client   *rest.Client
	dir      *Directory
	recorder journal.Recorder
	validate *validator.Validate
	log      zerolog.Logger

	open   bool
	mode   FormMode
	editID string
	form   Form
}

func NewFormController(client *rest.Client, dir *Directory, recorder journal.Recorder) *FormController {
	return &FormController{
		client:   client,
		dir:      dir,
		recorder: recorder,
		validate: validator.New(),
		log:      logger.Component("batch-form"),
	}
}

// Open starts a create dialog with an empty form.
func (c *FormController) Open() {
	c.open = true
	c.mode = ModeCreate
	c.editID = ""
	c.form = Form{Active: true}
}

// OpenForEdit pre-populates the form from an existing batch.
func (c *FormController) OpenForEdit(b model.Batch) {
	c.open = true
	c.mode = ModeEdit
	c.editID = b.ID
	c.form = Form{
		Name:        b.Name,
		Classes:     append([]string(nil), b.Classes...),
		Category:    b.Category,
		Subjects:    append([]model.Subject(nil), b.Subjects...),
		StudentIDs:  model.UserIDs(b.Students),
		TeacherIDs:  model.UserIDs(b.Teachers),
		Schedule:    b.Schedule,
		Description: b.Description,
		Active:      b.Active,
	}
}

func (c *FormController) Close() {
	c.open = false
	c.form = Form{}
	c.editID = ""
}

func (c *FormController) IsOpen() bool   { return c.open }
func (c *FormController) Mode() FormMode { return c.mode }
func (c *FormController) Form() *Form    { return &c.form }
func (c *FormController) SetForm(f Form) { c.form = f }
func (c *FormController) EditID() string { return c.editID }

// AddClass appends a trimmed class label, rejecting blanks and
// duplicates. No network traffic until Save.
func (c *FormController) AddClass(class string) error {
	class = strings.TrimSpace(class)
	if class == "" {
		return errors.ValidationError{Field: "classes", Value: class, Message: "class label cannot be blank"}
	}
	for _, existing := range c.form.Classes {
		if existing == class {
			return errors.ValidationError{Field: "classes", Value: class, Message: "class already added"}
		}
	}
	c.form.Classes = append(c.form.Classes, class)
	return nil
}

func (c *FormController) RemoveClass(class string) {
	out := c.form.Classes[:0]
	for _, existing := range c.form.Classes {
		if existing != class {
			out = append(out, existing)
		}
	}
	c.form.Classes = out
}

func (c *FormController) AddSubject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.ValidationError{Field: "subjects", Value: name, Message: "subject name cannot be blank"}
	}
	for _, existing := range c.form.Subjects {
		if existing.Name == name {
			return errors.ValidationError{Field: "subjects", Value: name, Message: "subject already added"}
		}
	}
	c.form.Subjects = append(c.form.Subjects, model.Subject{Name: name})
	return nil
}

func (c *FormController) RemoveSubject(name string) {
	out := c.form.Subjects[:0]
	for _, existing := range c.form.Subjects {
		if existing.Name != name {
			out = append(out, existing)
		}
	}
	c.form.Subjects = out
}

// Validate checks the required fields without touching the network.
func (c *FormController) Validate() error {
	if err := c.validate.Struct(&c.form); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Value:   fe.Value(),
				Message: requiredMessage(fe),
			}
		}
		return err
	}
	return nil
}

func requiredMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "batch name is required"
	case "Classes":
		return "at least one class is required"
	case "Category":
		return "category must be jee, neet or boards"
	}
	return "this field is required"
}

// Save submits the form. Validation failures and missing credentials
// block the request entirely; on success the form closes and the
// directory reloads batches plus eligible users, because membership may
// have changed. On failure the form stays populated for retry.
func (c *FormController) Save(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	payload := model.BatchPayload{
		Name:        c.form.Name,
		Classes:     c.form.Classes,
		Category:    c.form.Category,
		Subjects:    c.form.Subjects,
		StudentIDs:  c.form.StudentIDs,
		TeacherIDs:  c.form.TeacherIDs,
		Schedule:    c.form.Schedule,
		Description: c.form.Description,
		Active:      c.form.Active,
	}

	method, path, action := http.MethodPost, "/batches", "create"
	if c.mode == ModeEdit {
		method, path, action = http.MethodPut, "/batches/"+c.editID, "update"
	}

	start := time.Now()
	err := c.client.DoJSON(ctx, method, path, payload, nil)
	c.record(ctx, action, payload.Name, start, err)
	if err != nil {
		c.log.Error().Err(err).Str("batch", payload.Name).Msg("Failed to save batch")
		return err
	}

	c.log.Info().Str("batch", payload.Name).Str("mode", string(c.mode)).Msg("Batch saved")
	c.Close()
	c.reload(ctx)
	return nil
}

// Delete removes a batch. The confirm flag mirrors the confirmation
// prompt the operator has to answer first.
func (c *FormController) Delete(ctx context.Context, batchID string, confirmed bool) error {
	if !confirmed {
		return errors.ErrConfirmRequired
	}

	start := time.Now()
	err := c.client.DoJSON(ctx, http.MethodDelete, "/batches/"+batchID, nil, nil)
	c.record(ctx, "delete", batchID, start, err)
	if err != nil {
		return err
	}

	c.log.Info().Str("batch_id", batchID).Msg("Batch deleted")
	c.reload(ctx)
	return nil
}

func (c *FormController) reload(ctx context.Context) {
	if err := c.dir.LoadBatches(ctx); err != nil {
		c.log.Error().Err(err).Msg("Failed to reload batches after mutation")
	}
	c.dir.LoadEligibleUsers(ctx)
}

func (c *FormController) record(ctx context.Context, action, target string, start time.Time, opErr error) {
	entry := journal.Entry{
		Entity:   "batch",
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
