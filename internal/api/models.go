package api

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// CreateTaskRequest defines the payload for the task creation endpoint.
// The schema is closed: the body must contain content and nothing else.
// Presence of the key is checked in ParseCreateTaskRequest; an empty value is
// a valid task.
type CreateTaskRequest struct {
	Content string `form:"content"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// The schema is closed; task_id alone is not a valid update. The task_id field
// is parsed and checked by hand in ParseUpdateTaskRequest, so it carries no
// validate tag; any integer reaches the store lookup, which decides existence.
type UpdateTaskRequest struct {
	TaskID  int64   `form:"task_id"`
	Status  *string `form:"status" validate:"omitempty,taskstatus"`
	Content *string `form:"content"`
}

// validate is the package-level validator, reporting fields by their form
// names rather than Go struct field names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return domain.IsRecognizedStatus(fl.Field().String())
	}); err != nil {
		// ALLOW-PANIC: validator registration only fails on an empty tag name
		panic(err)
	}
	return v
}

// ParseCreateTaskRequest validates a form-encoded create payload.
// Any field other than content is a hard validation failure, not ignored.
// The content key must be present, but its value may be empty.
func ParseCreateTaskRequest(form url.Values) (*CreateTaskRequest, *ValidationError) {
	var fields []shared.FieldError
	for key := range form {
		if key != "content" {
			fields = append(fields, shared.FieldError{Field: key, Reason: "unexpected field"})
		}
	}

	if !form.Has("content") {
		fields = append(fields, shared.FieldError{Field: "content", Reason: "required field"})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &CreateTaskRequest{Content: form.Get("content")}, nil
}

// ParseUpdateTaskRequest validates a form-encoded update payload: task_id plus
// at least one of status/content, with no unknown fields.
func ParseUpdateTaskRequest(form url.Values) (*UpdateTaskRequest, *ValidationError) {
	var fields []shared.FieldError
	for key := range form {
		switch key {
		case "task_id", "status", "content":
		default:
			fields = append(fields, shared.FieldError{Field: key, Reason: "unexpected field"})
		}
	}

	req := &UpdateTaskRequest{}

	if !form.Has("task_id") {
		fields = append(fields, shared.FieldError{Field: "task_id", Reason: "required field"})
	} else {
		id, err := strconv.ParseInt(form.Get("task_id"), 10, 64)
		if err != nil {
			fields = append(fields, shared.FieldError{Field: "task_id", Reason: "must be an integer"})
		} else {
			req.TaskID = id
		}
	}

	if form.Has("status") {
		status := form.Get("status")
		req.Status = &status
	}
	if form.Has("content") {
		content := form.Get("content")
		req.Content = &content
	}

	fields = append(fields, structFieldErrors(req)...)

	// A payload holding only task_id has nothing to update.
	if req.Status == nil && req.Content == nil {
		fields = append(fields, shared.FieldError{
			Field:  "status, content",
			Reason: "at least one of status or content must be provided",
		})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return req, nil
}

// structFieldErrors runs the struct validator and converts its findings into
// field errors keyed by form name.
func structFieldErrors(v any) []shared.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []shared.FieldError{{Field: "", Reason: "validation failed"}}
	}

	fields := make([]shared.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, shared.FieldError{
			Field:  fe.Field(),
			Reason: reasonForTag(fe.Tag()),
		})
	}
	return fields
}

// reasonForTag maps validation tags to user-friendly error messages.
func reasonForTag(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "taskstatus":
		return "must be one of: " + knownStatusList()
	default:
		return "validation failed"
	}
}

// knownStatusList renders the recognized status values for error messages.
func knownStatusList() string {
	known := domain.KnownStatuses()
	parts := make([]string, len(known))
	for i, s := range known {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
