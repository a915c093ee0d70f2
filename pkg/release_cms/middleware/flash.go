package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "release_cms_flash"
	flashKey    = "release_cms.flash"
)

// Flash holds one-shot messages shown on the next rendered page.
type Flash struct {
	Success []string `json:"success,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (f Flash) Empty() bool {
	return len(f.Success) == 0 && len(f.Errors) == 0
}

func FlashSuccess(c *gin.Context, msgs ...string) {
	f := peekFlash(c)
	f.Success = append(f.Success, msgs...)
	writeFlash(c, f)
}

func FlashErrors(c *gin.Context, msgs ...string) {
	f := peekFlash(c)
	f.Errors = append(f.Errors, msgs...)
	writeFlash(c, f)
}

// TakeFlash returns the pending messages and clears them.
func TakeFlash(c *gin.Context) Flash {
	f := peekFlash(c)
	if !f.Empty() {
		c.Set(flashKey, Flash{})
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	return f
}

func peekFlash(c *gin.Context) Flash {
	if v, ok := c.Get(flashKey); ok {
		return v.(Flash)
	}
	var f Flash
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return f
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return f
	}
	_ = json.Unmarshal(data, &f)
	return f
}

func writeFlash(c *gin.Context, f Flash) {
	c.Set(flashKey, f)
	data, _ := json.Marshal(f)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data), 300, "/", "", false, true)
}
