package validator

import (
	"errors"
	"fmt"
	"html"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
	maxFileNameLen    = 255
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailInvalidFmt         = "invalid email format"
	errPasswordMinLengthFmt    = "password must be at least %d characters"
	errPasswordMaxLengthFmt    = "password must not exceed %d characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
	errImageTypeFmt            = "unsupported image type %q"

	msgRequired = "%s is required"
	msgEmail    = "%s must be a valid email address"
	msgURL      = "%s must be a valid URL"
	msgMax      = "%s must be at most %s characters"
	msgMin      = "%s must be at least %s characters"
	msgDatetime = "%s must match %s"
	msgInvalid  = "%s is invalid"
)

var (
	validate     = validator.New(validator.WithRequiredStructEnabled())
	strictPolicy = bluemonday.StrictPolicy()
	spaceRegex   = regexp.MustCompile(`[ \t]+`)

	imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"}
)

func Email(email string) error {
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return errors.New(errEmailInvalidFmt)
	}
	return nil
}

// Password checks length only. bcrypt ignores bytes past 72.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

// Fields checks values against validator tags per field and returns one
// readable message per failing field. Fields without rules are not checked.
func Fields(rules map[string]string, values map[string]string) map[string]string {
	problems := map[string]string{}
	for field, tag := range rules {
		if tag == "" {
			continue
		}
		err := validate.Var(values[field], tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			problems[field] = describe(field, verrs[0])
		} else {
			problems[field] = fmt.Sprintf(msgInvalid, field)
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf(msgRequired, field)
	case "email":
		return fmt.Sprintf(msgEmail, field)
	case "url":
		return fmt.Sprintf(msgURL, field)
	case "max":
		return fmt.Sprintf(msgMax, field, fe.Param())
	case "min":
		return fmt.Sprintf(msgMin, field, fe.Param())
	case "datetime":
		return fmt.Sprintf(msgDatetime, field, fe.Param())
	default:
		return fmt.Sprintf(msgInvalid, field)
	}
}

// PlainText strips all markup and collapses runs of spaces. Newlines survive.
// The result is raw text for JSON, not HTML; entities are decoded.
func PlainText(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = spaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func FileName(name string) error {
	if name == "" {
		return errors.New(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return errors.New(errFileNameControlCharsFmt)
		}
	}

	return nil
}

// SafeFileName keeps the extension and replaces anything unusual with '_'.
func SafeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}

// ImageContentType accepts the common web image types.
func ImageContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf(errImageTypeFmt, contentType)
	}
	mediaType = strings.ToLower(mediaType)
	for _, allowed := range imageTypes {
		if mediaType == allowed {
			return nil
		}
	}
	return fmt.Errorf(errImageTypeFmt, mediaType)
}
