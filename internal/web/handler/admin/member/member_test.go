package member_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/admin/member"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/handlertest"
)

const basePath = "/api/admin/members"

func TestRequiresAdmin(t *testing.T) {
	env := handlertest.New(t, &member.Service{})

	for _, target := range []string{basePath, basePath + "/1", basePath + "/1/pi-info"} {
		resp := env.Do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status, target)
	}
}

func TestCreateNormalizes(t *testing.T) {
	env := handlertest.New(t, &member.Service{})
	cookie := env.Login(t)

	resp := env.Do(t, http.MethodPost, basePath, map[string]any{
		"name":     "  Ada Lovelace ",
		"position": "   ",
		"email":    " ada@example.org ",
		"hobbies":  nil,
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))

	m := resp.Object(t)
	assert.Equal(t, "Ada Lovelace", m["name"])
	assert.Nil(t, m["position"])
	assert.Nil(t, m["hobbies"])
	assert.Equal(t, "ada@example.org", m["email"])
	assert.Equal(t, "student", m["type"])
	assert.Equal(t, float64(0), m["is_pi"])
	assert.Equal(t, float64(0), m["sort_order"])
	assert.Equal(t, float64(1), m["enabled"])
	assert.Nil(t, m["image"])
	assert.Nil(t, m["image_asset_id"])
}

func TestCreateWithImage(t *testing.T) {
	env := handlertest.New(t, &member.Service{})
	cookie := env.Login(t)

	img := models.Asset{OriginalName: "ada.png", Mime: "image/png", Size: 10, RelativePath: "uploads/2024/05/x_ada.png", Kind: models.AssetKindImage}
	require.NoError(t, env.DB.Create(&img).Error)

	resp := env.Do(t, http.MethodPost, basePath, map[string]any{
		"name":           "Ada",
		"type":           "in_service",
		"is_pi":          true,
		"image_asset_id": "1",
		"sort_order":     3,
		"enabled":        "0",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))

	m := resp.Object(t)
	assert.Equal(t, "in_service", m["type"])
	assert.Equal(t, float64(1), m["is_pi"])
	assert.Equal(t, float64(3), m["sort_order"])
	assert.Equal(t, float64(0), m["enabled"])
	assert.Equal(t, map[string]any{
		"id":            float64(1),
		"url":           "http://example.com/static/uploads/2024/05/x_ada.png",
		"mime":          "image/png",
		"original_name": "ada.png",
	}, m["image"])
}

func TestCreateValidation(t *testing.T) {
	env := handlertest.New(t, &member.Service{})
	cookie := env.Login(t)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	for name, body := range map[string]map[string]any{
		"missing name":   {},
		"long name":      {"name": string(long)},
		"unknown type":   {"name": "a", "type": "visitor"},
		"bad image id":   {"name": "a", "image_asset_id": "abc"},
		"negative order": {"name": "a", "sort_order": -2},
		"bad enabled":    {"name": "a", "enabled": "maybe"},
		"numeric email":  {"name": "a", "email": 12},
	} {
		t.Run(name, func(t *testing.T) {
			resp := env.Do(t, http.MethodPost, basePath, body, cookie)
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.Equal(t, "Validation failed", resp.ErrorMessage())
		})
	}
}

func TestListFilterUpdateDelete(t *testing.T) {
	env := handlertest.New(t, &member.Service{})
	cookie := env.Login(t)

	for _, body := range []map[string]any{
		{"name": "Student B", "sort_order": 2},
		{"name": "PI", "is_pi": 1, "sort_order": 5},
		{"name": "Student A", "sort_order": 1},
	} {
		resp := env.Do(t, http.MethodPost, basePath, body, cookie)
		require.Equal(t, http.StatusOK, resp.Status)
	}

	resp := env.Do(t, http.MethodGet, basePath, nil, cookie)
	require.Equal(t, http.StatusOK, resp.Status)

	names := make([]string, 0)
	for _, item := range resp.Items(t) {
		names = append(names, item.(map[string]any)["name"].(string))
	}

	assert.Equal(t, []string{"Student A", "Student B", "PI"}, names)

	resp = env.Do(t, http.MethodGet, basePath+"?is_pi=true", nil, cookie)
	require.Len(t, resp.Items(t), 1)
	assert.Equal(t, float64(1), resp.Object(t)["total"])

	resp = env.Do(t, http.MethodGet, basePath+"?is_pi=0", nil, cookie)
	assert.Len(t, resp.Items(t), 2)

	resp = env.Do(t, http.MethodPut, basePath+"/1", map[string]any{"name": "Student B2", "type": "alumni"}, cookie)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "alumni", resp.Object(t)["type"])
	assert.Equal(t, float64(0), resp.Object(t)["sort_order"])

	resp = env.Do(t, http.MethodPut, basePath+"/42", map[string]any{"name": "x"}, cookie)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "Member not found", resp.ErrorMessage())

	resp = env.Do(t, http.MethodDelete, basePath+"/1", nil, cookie)
	require.Equal(t, http.StatusOK, resp.Status)

	resp = env.Do(t, http.MethodGet, basePath+"/1", nil, cookie)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestPIInfo(t *testing.T) {
	env := handlertest.New(t, &member.Service{})
	cookie := env.Login(t)

	resp := env.Do(t, http.MethodPost, basePath, map[string]any{"name": "PI", "is_pi": 1}, cookie)
	require.Equal(t, http.StatusOK, resp.Status)

	target := basePath + "/1/pi-info"

	resp = env.Do(t, http.MethodGet, target, nil, cookie)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "data")
	assert.Nil(t, resp.Data())

	resp = env.Do(t, http.MethodPut, target, map[string]any{"content_md": "# Bio"}, cookie)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))

	info := resp.Object(t)
	assert.Equal(t, "markdown", info["content_format"])
	assert.Equal(t, "# Bio", info["content_md"])
	assert.Nil(t, info["content_html"])
	assert.Equal(t, float64(1), info["member_id"])

	resp = env.Do(t, http.MethodPut, target, map[string]any{
		"content_format": "richtext",
		"content_md":     "ignored",
		"content_html":   `<p onclick="x()">Hi</p><script>alert(1)</script>`,
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Status)

	info = resp.Object(t)
	assert.Equal(t, "richtext", info["content_format"])
	assert.Nil(t, info["content_md"])
	assert.Equal(t, "<p>Hi</p>", info["content_html"])

	var count int64
	require.NoError(t, env.DB.Model(&models.MemberPIInfo{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert keeps one row per member")

	resp = env.Do(t, http.MethodPut, basePath+"/9/pi-info", map[string]any{"content_md": "x"}, cookie)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = env.Do(t, http.MethodPut, target, map[string]any{"content_format": "html"}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}
