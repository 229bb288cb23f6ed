package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectedTabs(nav Navigation) []string {
	var out []string
	for _, tab := range nav.Tabs {
		if tab.Selected {
			out = append(out, tab.Label)
		}
	}
	return out
}

func TestRouterNavigateSelectsOneTab(t *testing.T) {
	router, err := NewRouter(DefaultManifest().Tabs)
	require.NoError(t, err)

	cases := map[string]string{
		"/panel/overview":       PanelOverview,
		"/panel/opportunities":  PanelOpportunities,
		"/panel/leads/":         PanelLeads,
		"panel/cases":           PanelCases,
		"  /panel/cases  ":      PanelCases,
		"/panel/opportunities/": PanelOpportunities,
	}
	for path, panel := range cases {
		nav := router.Navigate(path)
		assert.Equal(t, panel, nav.Route.Panel, path)
		assert.False(t, nav.Fallback, path)
		require.Len(t, selectedTabs(nav), 1, path)
		assert.Equal(t, nav.Route.Label, selectedTabs(nav)[0], path)
	}
}

func TestRouterUnknownPathFallsBackToDefault(t *testing.T) {
	router, err := NewRouter(DefaultManifest().Tabs)
	require.NoError(t, err)

	for _, path := range []string{"", "/", "/panel/unknown", "/panel"} {
		nav := router.Navigate(path)
		assert.True(t, nav.Fallback, path)
		assert.Equal(t, PanelOverview, nav.Route.Panel, path)
		assert.Equal(t, []string{"Overview"}, selectedTabs(nav), path)
	}
	assert.Equal(t, router.Default(), router.Navigate("/nope").Route)
}

func TestRouterLookup(t *testing.T) {
	router, err := NewRouter(DefaultManifest().Tabs)
	require.NoError(t, err)
	route, ok := router.Lookup("/panel/leads")
	require.True(t, ok)
	assert.Equal(t, "Leads", route.Label)
	_, ok = router.Lookup("/")
	assert.False(t, ok)
	assert.Len(t, router.Routes(), 4)
}

func TestNewRouterValidation(t *testing.T) {
	_, err := NewRouter(nil)
	assert.ErrorIs(t, err, errNoRoutes)

	_, err = NewRouter([]Route{{Label: "a", Path: "/a"}})
	assert.Error(t, err)

	_, err = NewRouter([]Route{
		{Label: "a", Path: "/a", Panel: PanelOverview},
		{Label: "b", Path: "a/", Panel: PanelLeads},
	})
	assert.Error(t, err)
}

func TestMenuToggle(t *testing.T) {
	var menu MenuToggle
	assert.False(t, menu.Visible())
	assert.Equal(t, "none", menu.Display())

	assert.True(t, menu.Click())
	assert.Equal(t, "flex", menu.Display())

	assert.False(t, menu.Click())
	assert.Equal(t, "none", menu.Display())
}
