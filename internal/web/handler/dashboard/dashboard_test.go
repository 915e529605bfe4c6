package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zsh123456-BOOP/jnu-web/internal/db/models"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/dashboard"
	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler/handlertest"
)

func TestDashboard(t *testing.T) {
	env := handlertest.New(t, &dashboard.Service{})

	resp := env.Do(t, http.MethodGet, "/api"+dashboard.Path, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	cookie := env.Login(t)

	resp = env.Do(t, http.MethodGet, "/api"+dashboard.Path, nil, cookie)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t,
		`{"ok":true,"data":{"modules":0,"contents":{"draft":0,"published":0,"total":0},"members":0,"assets":0}}`,
		string(resp.Raw))

	module := models.Module{Name: "News", Slug: "news", Type: models.ModuleTypeListDetail, Enabled: 1}
	require.NoError(t, env.DB.Create(&module).Error)

	for i, status := range []models.ContentStatus{models.ContentStatusDraft, models.ContentStatusPublished, models.ContentStatusPublished} {
		require.NoError(t, env.DB.Create(&models.Content{
			ModuleID:      module.ID,
			Title:         "t",
			Slug:          string(rune('a' + i)),
			Status:        status,
			ContentFormat: models.ContentFormatMarkdown,
		}).Error)
	}

	require.NoError(t, env.DB.Create(&models.Member{Name: "Ada", Type: models.MemberTypeStudent, Enabled: 1}).Error)

	resp = env.Do(t, http.MethodGet, "/api"+dashboard.Path, nil, cookie)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t,
		`{"ok":true,"data":{"modules":1,"contents":{"draft":1,"published":2,"total":3},"members":1,"assets":0}}`,
		string(resp.Raw))
}
