package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/pkg/middleware"
)

// ListResponse is the envelope of paginated lists.
type ListResponse struct {
	Offset    int            `json:"offset"`
	Total     int            `json:"total"`
	Sent      int            `json:"sent"`
	Truncated bool           `json:"truncated"`
	List      []document.Doc `json:"list"`
}

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// searchParams returns the query without the pagination parameter.
func searchParams(q url.Values) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if k == "offset" {
			continue
		}
		out[k] = v
	}
	return out
}

// page cuts at most length items starting at the requested offset. An
// offset that is not a non-negative integer inside the list becomes 0.
func page(c *gin.Context, all []document.Doc, length int) ListResponse {
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 || offset >= len(all) {
		offset = 0
	}
	end := offset + length
	if end > len(all) {
		end = len(all)
	}
	list := all[offset:end]
	if list == nil {
		list = []document.Doc{}
	}
	return ListResponse{
		Offset:    offset,
		Total:     len(all),
		Sent:      len(list),
		Truncated: end < len(all),
		List:      list,
	}
}

func respondList(c *gin.Context, all []document.Doc, length int) {
	c.JSON(http.StatusOK, page(c, all, length))
}

// bindDoc decodes the JSON object body. Anything else is a bad request.
func bindDoc(c *gin.Context) (document.Doc, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		return nil, false
	}
	return document.NormalizeDoc(body), true
}
