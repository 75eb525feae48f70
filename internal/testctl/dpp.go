package testctl

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coaching-admin-client/internal/journal"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/internal/rest"
	"coaching-admin-client/pkg/errors"

	"github.com/rs/zerolog"
)

// DPPForm is the daily practice problem form. A DPP is a lightweight
// test: question/answer PDFs for a batch, class, and subject, with no
// marks or per-student tracking.
type DPPForm struct {
	Title    string
	Class    string
	Subject  string
	Active   bool
	Question *Staged
	Answer   *Staged
}

type DPPController struct {
	client   *rest.Client
	resolver *Resolver
	recorder journal.Recorder
	log      zerolog.Logger
}

func NewDPPController(client *rest.Client, resolver *Resolver, recorder journal.Recorder) *DPPController {
	return &DPPController{
		client:   client,
		resolver: resolver,
		recorder: recorder,
		log:      logger.Component("dpp"),
	}
}

func (c *DPPController) validateForm(form DPPForm, b model.Batch) error {
	if strings.TrimSpace(form.Title) == "" {
		return errors.ValidationError{Field: "title", Value: form.Title, Message: "title is required"}
	}
	if !b.HasClass(form.Class) {
		return errors.ValidationError{Field: "class", Value: form.Class, Message: "class is not part of this batch"}
	}
	if !b.HasSubject(form.Subject) {
		return errors.ValidationError{Field: "subject", Value: form.Subject, Message: "subject is not offered in this batch"}
	}
	return nil
}

// Create submits a new DPP for the batch.
func (c *DPPController) Create(ctx context.Context, b model.Batch, form DPPForm) error {
	return c.save(ctx, b, form, http.MethodPost, "/dpps", "create")
}

// Update edits an existing DPP; omitted attachments are preserved
// server-side.
func (c *DPPController) Update(ctx context.Context, b model.Batch, dppID string, form DPPForm) error {
	return c.save(ctx, b, form, http.MethodPut, "/dpps/"+dppID, "update")
}

func (c *DPPController) save(ctx context.Context, b model.Batch, form DPPForm, method, path, action string) error {
	if err := c.validateForm(form, b); err != nil {
		return err
	}

	fields := map[string]string{
		"title":    form.Title,
		"batchId":  b.ID,
		"class":    form.Class,
		"subject":  form.Subject,
		"isActive": strconv.FormatBool(form.Active),
	}

	var files []rest.FilePart
	for field, staged := range map[string]*Staged{"questionPdf": form.Question, "answerPdf": form.Answer} {
		if staged == nil {
			continue
		}
		part, err := c.resolver.Resolve(ctx, field, staged)
		if err != nil {
			return err
		}
		files = append(files, part)
	}

	start := time.Now()
	err := c.client.DoMultipart(ctx, method, path, fields, files, nil)

	entry := journal.Entry{
		Entity:   "dpp",
		Action:   action,
		Target:   form.Title,
		Outcome:  journal.OutcomeOK,
		Duration: time.Since(start),
	}
	if err != nil {
		entry.Outcome = journal.OutcomeFailed
		entry.Message = err.Error()
	}
	if recErr := c.recorder.Record(ctx, entry); recErr != nil {
		c.log.Warn().Err(recErr).Msg("Failed to record journal entry")
	}

	if err != nil {
		c.log.Error().Err(err).Str("title", form.Title).Msg("Failed to save DPP")
		return err
	}
	c.log.Info().Str("title", form.Title).Str("action", action).Msg("DPP saved")
	return nil
}

// List fetches DPPs for a batch and subject.
func (c *DPPController) List(ctx context.Context, batchID, subject string) ([]model.DPP, error) {
	var dpps []model.DPP
	if err := c.client.Get(ctx, "/dpps?batchId="+batchID+"&subject="+subject, &dpps); err != nil {
		return nil, err
	}
	return dpps, nil
}
