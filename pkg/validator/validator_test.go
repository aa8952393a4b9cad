package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("partner@firm.test"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("long enough"))
	assert.Error(t, Password("short"))
}

func TestFields(t *testing.T) {
	rules := map[string]string{
		"name":       "required,max=10",
		"email":      "required,email",
		"buttonLink": "omitempty,url",
		"date":       "required,datetime=2006-01-02",
		"notes":      "",
	}

	problems := Fields(rules, map[string]string{
		"name":       "A very long name indeed",
		"email":      "nope",
		"buttonLink": "",
		"date":       "12/01/2025",
	})

	assert.Equal(t, map[string]string{
		"name":  "name must be at most 10 characters",
		"email": "email must be a valid email address",
		"date":  "date must match 2006-01-02",
	}, problems)

	assert.Nil(t, Fields(rules, map[string]string{
		"name":  "Ada",
		"email": "ada@firm.test",
		"date":  "2025-01-12",
	}))

	assert.Equal(t, "name is required", Fields(rules, map[string]string{})["name"])
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText(`<script>alert(1)</script><b>Hello</b>   world`))
	assert.Equal(t, "Fees & costs", PlainText("Fees &amp; costs"))
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "my_photo.png", SafeFileName("../../my photo.png"))
	assert.Equal(t, "a.jpg", SafeFileName(`C:\Users\me\a.jpg`))
	assert.Equal(t, "upload", SafeFileName("..."))
}

func TestImageContentType(t *testing.T) {
	assert.NoError(t, ImageContentType("image/png"))
	assert.NoError(t, ImageContentType("IMAGE/JPEG; q=1"))
	assert.Error(t, ImageContentType("application/pdf"))
	assert.Error(t, ImageContentType(""))
}
