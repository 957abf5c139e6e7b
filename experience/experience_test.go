package experience

import (
	"encoding/json"
	"testing"

	"github.com/bestbytes/blog-mcp/contentful"
	"github.com/bestbytes/blog-mcp/service/vo"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestMapEmpty(t *testing.T) {
	require.Empty(t, Map(nil))
	require.Empty(t, Map([]contentful.RawExperience{}))
}

func TestMapDropsMalformedRecords(t *testing.T) {
	raw := []contentful.RawExperience{
		{
			ExperienceID: "E1",
			Name:         "Exp1",
			Variants: contentful.RawVariantList{
				Items: []contentful.RawVariant{
					{Sys: vo.Sys{ID: "V1"}, Title: strPtr("A")},
				},
			},
		},
		// A non-experience member of the collection decodes to the
		// zero value and must be dropped without failing the rest.
		{},
	}

	experiences := Map(raw)
	require.Len(t, experiences, 1)
	require.Equal(t, "E1", experiences[0].ID)
	require.Equal(t, "Exp1", experiences[0].Name)
	require.Len(t, experiences[0].Variants, 1)
	require.Equal(t, "V1", experiences[0].Variants[0].ID)
	require.Equal(t, "A", *experiences[0].Variants[0].Title)
	require.Nil(t, experiences[0].Variants[0].Content)
}

func TestMapIDFallsBackToSysID(t *testing.T) {
	raw := []contentful.RawExperience{
		{Sys: vo.Sys{ID: "sys-1"}, Name: "Exp"},
		{Sys: vo.Sys{ID: "sys-2"}, ExperienceID: "E2", Name: "Exp2"},
	}

	experiences := Map(raw)
	require.Len(t, experiences, 2)
	require.Equal(t, "sys-1", experiences[0].ID)
	require.Equal(t, "E2", experiences[1].ID)
}

func TestMapAudience(t *testing.T) {
	raw := []contentful.RawExperience{
		{
			ExperienceID: "E1",
			Name:         "Exp1",
			Audience:     &contentful.RawAudience{AudienceID: "aud-1", Name: "Beginners"},
		},
		{
			ExperienceID: "E2",
			Name:         "Exp2",
		},
	}

	experiences := Map(raw)
	require.Len(t, experiences, 2)
	require.Equal(t, &vo.Audience{ID: "aud-1", Name: "Beginners"}, experiences[0].Audience)
	require.Nil(t, experiences[1].Audience)
}

func TestMapAudienceAbsentFromJSON(t *testing.T) {
	experiences := Map([]contentful.RawExperience{{ExperienceID: "E1", Name: "Exp1"}})
	require.Len(t, experiences, 1)

	// The audience field must be absent entirely, not present as null.
	data, err := json.Marshal(experiences[0])
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.NotContains(t, fields, "audience")
}

func TestMapPreservesOrder(t *testing.T) {
	raw := []contentful.RawExperience{
		{ExperienceID: "E1", Name: "first"},
		{},
		{ExperienceID: "E2", Name: "second"},
		{ExperienceID: "E3", Name: "third"},
	}

	experiences := Map(raw)
	require.Len(t, experiences, 3)
	require.Equal(t, "E1", experiences[0].ID)
	require.Equal(t, "E2", experiences[1].ID)
	require.Equal(t, "E3", experiences[2].ID)
}

func TestMapPassesConfigAndTypeThrough(t *testing.T) {
	raw := []contentful.RawExperience{
		{
			ExperienceID: "E1",
			Name:         "Exp1",
			Type:         "nt_personalization",
			Config:       map[string]any{"distribution": []any{1.0}},
		},
	}

	experiences := Map(raw)
	require.Len(t, experiences, 1)
	require.Equal(t, "nt_personalization", experiences[0].Type)
	require.Equal(t, map[string]any{"distribution": []any{1.0}}, experiences[0].Config)
}
