package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/domain/schema"
	"lawfirm-cms/internal/formfield"
	"lawfirm-cms/internal/repository"
	"lawfirm-cms/internal/resource"
	"lawfirm-cms/internal/storage"
	"lawfirm-cms/pkg/validator"

	"github.com/labstack/echo/v4"
)

const (
	imageKeyURL      = "url"
	imageKeyPublicID = "public_id"
)

// ResourceHandler serves the CRUD routes of every schema-described resource.
type ResourceHandler struct {
	docs      DocumentStore
	images    ImageStore
	metrics   MutationRecorder
	audit     AuditRecorder
	notifier  InquiryNotifier
	maxUpload int64
}

func NewResourceHandler(docs DocumentStore, images ImageStore, maxUpload int64, metrics MutationRecorder) *ResourceHandler {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &ResourceHandler{docs: docs, images: images, metrics: metrics, audit: noopAudit{}, notifier: noopNotifier{}, maxUpload: maxUpload}
}

// WithAudit records every successful write in the activity log.
func (h *ResourceHandler) WithAudit(a AuditRecorder) *ResourceHandler {
	if a != nil {
		h.audit = a
	}
	return h
}

// WithNotifier announces public submissions, such as the contact form.
func (h *ResourceHandler) WithNotifier(n InquiryNotifier) *ResourceHandler {
	if n != nil {
		h.notifier = n
	}
	return h
}

// submission is a parsed, normalized create or update body.
type submission struct {
	fields map[string]any
	image  *multipart.FileHeader
}

func (h *ResourceHandler) List(s schema.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		docs, err := h.docs.List(c.Request().Context(), s.Path())
		if err != nil {
			return RespondWithMappedError(c, err)
		}
		if docs == nil {
			docs = []*repository.Document{}
		}
		return respondData(c, http.StatusOK, docs, "")
	}
}

func (h *ResourceHandler) Get(s schema.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := h.docs.Get(c.Request().Context(), s.Path(), c.Param(paramID))
		if err != nil {
			return RespondWithMappedError(c, err)
		}
		return respondData(c, http.StatusOK, doc, "")
	}
}

func (h *ResourceHandler) Create(s schema.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		sub, problems, err := h.readSubmission(c, s, false)
		if err != nil {
			return handleHTTPError(c, err)
		}
		if problems != nil {
			return respondValidation(c, problems)
		}

		ctx := c.Request().Context()
		uploaded, err := h.attachImage(ctx, s, sub)
		if err != nil {
			c.Logger().Errorf("image upload failed: %v", err)
			return respondError(c, http.StatusInternalServerError, msgImageUploadFail)
		}

		doc, err := h.docs.Create(ctx, s.Path(), sub.fields)
		if err != nil {
			h.discardImage(c, uploaded)
			return RespondWithMappedError(c, err)
		}

		h.metrics.RecordMutation(s.Path(), opCreate)
		h.audit.Record(c, s.Path(), doc.ID, audit.ActionCreate, nil)
		if s.PublicCreate {
			h.notifier.InquiryReceived(s.Path(), doc.ID, doc.Fields)
		}
		return respondData(c, http.StatusCreated, doc, fmt.Sprintf(msgCreatedFmt, s.Path()))
	}
}

// Update merges the submitted fields into the stored entity. Fields absent
// from the body keep their stored values. A new image replaces and deletes
// the previous one.
func (h *ResourceHandler) Update(s schema.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramID)

		prev, err := h.docs.Get(ctx, s.Path(), id)
		if err != nil {
			return RespondWithMappedError(c, err)
		}

		sub, problems, err := h.readSubmission(c, s, true)
		if err != nil {
			return handleHTTPError(c, err)
		}
		if problems != nil {
			return respondValidation(c, problems)
		}

		uploaded, err := h.attachImage(ctx, s, sub)
		if err != nil {
			c.Logger().Errorf("image upload failed: %v", err)
			return respondError(c, http.StatusInternalServerError, msgImageUploadFail)
		}

		doc, err := h.docs.Update(ctx, s.Path(), id, sub.fields)
		if err != nil {
			h.discardImage(c, uploaded)
			return RespondWithMappedError(c, err)
		}

		if uploaded != "" {
			h.discardImage(c, publicIDOf(prev.Fields[s.ImageField]))
		}

		h.metrics.RecordMutation(s.Path(), opUpdate)
		h.audit.Record(c, s.Path(), doc.ID, audit.ActionUpdate, nil)
		return respondData(c, http.StatusOK, doc, fmt.Sprintf(msgUpdatedFmt, s.Path()))
	}
}

func (h *ResourceHandler) Delete(s schema.Schema) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := h.docs.Delete(c.Request().Context(), s.Path(), c.Param(paramID))
		if err != nil {
			return RespondWithMappedError(c, err)
		}
		if s.ImageField != "" {
			h.discardImage(c, publicIDOf(doc.Fields[s.ImageField]))
		}

		h.metrics.RecordMutation(s.Path(), opDelete)
		h.audit.Record(c, s.Path(), doc.ID, audit.ActionDelete, nil)
		return respondMessage(c, http.StatusOK, fmt.Sprintf(msgDeletedFmt, s.Path()))
	}
}

// readSubmission parses a JSON or multipart body, keeps only fields the
// schema knows, normalizes them and validates the result. Partial bodies
// validate only the fields they carry.
func (h *ResourceHandler) readSubmission(c echo.Context, s schema.Schema, partial bool) (submission, map[string]string, error) {
	var (
		raw = map[string]any{}
		sub submission
	)

	switch {
	case isMultipart(c):
		form, err := c.MultipartForm()
		if err != nil {
			return sub, nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
		}
		for name, values := range form.Value {
			if len(values) > 0 {
				raw[name] = values[0]
			}
		}
		if files := form.File[resource.ImageField]; len(files) > 0 {
			sub.image = files[0]
		}
	case isJSON(c), c.Request().ContentLength == 0:
		obj, err := bindObject(c)
		if err != nil {
			return sub, nil, err
		}
		raw = obj
	default:
		return sub, nil, echo.NewHTTPError(http.StatusUnsupportedMediaType, msgUnsupportedContentType)
	}

	fields, problems := normalize(s, raw)

	rules := s.Rules
	if partial {
		rules = make(map[string]string, len(fields))
		for name, tag := range s.Rules {
			if _, ok := fields[name]; ok {
				rules[name] = tag
			}
		}
	}
	values := make(map[string]string, len(rules))
	for name := range rules {
		values[name], _ = fields[name].(string)
	}
	for name, msg := range validator.Fields(rules, values) {
		problems[name] = msg
	}

	if sub.image != nil {
		if msg := h.checkImage(s, sub.image); msg != "" {
			problems[resource.ImageField] = msg
		}
	}

	sub.fields = fields
	if len(problems) == 0 {
		return sub, nil, nil
	}
	return sub, problems, nil
}

func (h *ResourceHandler) checkImage(s schema.Schema, fh *multipart.FileHeader) string {
	switch {
	case s.ImageField == "":
		return msgImageNotAccepted
	case h.maxUpload > 0 && fh.Size > h.maxUpload:
		return msgImageTooLarge
	}
	if err := validator.FileName(fh.Filename); err != nil {
		return err.Error()
	}
	if err := validator.ImageContentType(fh.Header.Get(echo.HeaderContentType)); err != nil {
		return err.Error()
	}
	return ""
}

// attachImage uploads the submitted image, if any, and stores its reference
// under the schema's image field. It returns the new object's public id.
func (h *ResourceHandler) attachImage(ctx context.Context, s schema.Schema, sub submission) (string, error) {
	if sub.image == nil {
		return "", nil
	}

	f, err := sub.image.Open()
	if err != nil {
		return "", fmt.Errorf(errReadImageFmt, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf(errReadImageFmt, err)
	}

	obj, err := h.images.Put(ctx, sub.image.Filename, sub.image.Header.Get(echo.HeaderContentType), data)
	if err != nil {
		return "", err
	}

	sub.fields[s.ImageField] = imageRef(obj)
	return obj.PublicID, nil
}

// discardImage deletes an image that is no longer referenced. Failures leave
// an orphaned object behind and are only logged.
func (h *ResourceHandler) discardImage(c echo.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := h.images.Delete(c.Request().Context(), publicID); err != nil {
		c.Logger().Warnf("failed to delete image %s: %v", publicID, err)
	}
}

func imageRef(obj storage.Object) map[string]any {
	return map[string]any{imageKeyURL: obj.URL, imageKeyPublicID: obj.PublicID}
}

func publicIDOf(v any) string {
	switch ref := v.(type) {
	case map[string]any:
		id, _ := ref[imageKeyPublicID].(string)
		return id
	case map[string]string:
		return ref[imageKeyPublicID]
	default:
		return ""
	}
}

// normalize converts raw body values to their stored shapes. Text is reduced
// to plain text, lists become []string and objects are decoded from JSON text
// when a multipart body carried them as strings.
func normalize(s schema.Schema, raw map[string]any) (map[string]any, map[string]string) {
	fields := map[string]any{}
	problems := map[string]string{}

	for name := range s.Rules {
		v, ok := raw[name]
		if !ok {
			continue
		}
		text, ok := scalarText(v)
		if !ok {
			problems[name] = fmt.Sprintf("%s is invalid", name)
			continue
		}
		fields[name] = text
	}

	for _, name := range s.Lists {
		v, ok := raw[name]
		if !ok {
			continue
		}
		list, ok := toList(v)
		if !ok {
			problems[name] = fmt.Sprintf(msgInvalidListFmt, name)
			continue
		}
		fields[name] = list
	}

	for _, name := range s.Objects {
		v, ok := raw[name]
		if !ok {
			continue
		}
		obj, ok := toObject(v)
		if !ok {
			problems[name] = fmt.Sprintf(msgInvalidObjectFmt, name)
			continue
		}
		fields[name] = obj
	}

	return fields, problems
}

func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return validator.PlainText(val), true
	case json.Number:
		return val.String(), true
	case bool, float64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

func toList(v any) ([]string, bool) {
	switch val := v.(type) {
	case nil:
		return []string{}, true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			text, ok := scalarText(item)
			if !ok {
				return nil, false
			}
			if text != "" {
				out = append(out, text)
			}
		}
		return out, true
	case string:
		trimmed := strings.TrimSpace(val)
		if strings.HasPrefix(trimmed, "[") {
			var items []any
			if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
				return nil, false
			}
			return toList(items)
		}
		parts := formfield.Split(val)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if text := validator.PlainText(p); text != "" {
				out = append(out, text)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func toObject(v any) (any, bool) {
	if text, ok := v.(string); ok {
		decoder := json.NewDecoder(strings.NewReader(text))
		decoder.UseNumber()
		var decoded any
		if err := decoder.Decode(&decoded); err != nil {
			return nil, false
		}
		v = decoded
	}
	switch v.(type) {
	case map[string]any, []any:
		return sanitize(v), true
	default:
		return nil, false
	}
}

// sanitize strips markup from every string inside a decoded JSON value.
func sanitize(v any) any {
	switch val := v.(type) {
	case string:
		return validator.PlainText(val)
	case map[string]any:
		for k, item := range val {
			val[k] = sanitize(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = sanitize(item)
		}
		return val
	default:
		return v
	}
}
