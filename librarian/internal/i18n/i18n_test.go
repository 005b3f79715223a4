package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		lang   string
		key    string
		params []Param
		want   string
	}{
		{name: "english", lang: English, key: "dashboard.title", want: "My Dashboard"},
		{name: "french", lang: French, key: "dashboard.title", want: "Mon Tableau de Bord"},
		{name: "param", lang: French, key: "dashboard.welcome", params: []Param{P("name", "Ann")}, want: "Bon retour, Ann !"},
		{name: "numeric param", lang: English, key: "dashboard.late_fee", params: []Param{P("amount", "$0.75")}, want: "+$0.75 late"},
		{name: "fallback to english", lang: French, key: "admin.seed_failed", params: []Param{P("title", "Dune"), P("error", "conflict")}, want: "Skipped Dune: conflict"},
		{name: "fallback to key", lang: French, key: "nope.missing", want: "nope.missing"},
		{name: "unknown language", lang: "de", key: "status.overdue", want: "Overdue"},
		{name: "unused param", lang: English, key: "status.returned", params: []Param{P("x", 1)}, want: "Returned"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, New(tt.lang).T(tt.key, tt.params...))
		})
	}
}

func TestNegotiate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prefs []string
		want  string
	}{
		{prefs: nil, want: English},
		{prefs: []string{"fr_FR.UTF-8"}, want: French},
		{prefs: []string{"fr-CA"}, want: French},
		{prefs: []string{"", "C"}, want: English},
		{prefs: []string{"de_DE.UTF-8"}, want: English},
		{prefs: []string{"not a tag", "fr"}, want: French},
		{prefs: []string{"en_GB", "fr"}, want: English},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Negotiate(tt.prefs...), "%v", tt.prefs)
	}
}

func TestCatalogsComplete(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"admin.seed_failed"}, Missing(French))
}
