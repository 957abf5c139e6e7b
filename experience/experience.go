// Package experience normalizes raw experimentation records from the
// content source into the configuration shape the personalization
// layer consumes.
package experience

import (
	"github.com/bestbytes/blog-mcp/contentful"
	"github.com/bestbytes/blog-mcp/service/vo"
)

// Map converts raw experience records into normalized configs. Records
// failing the validity check are dropped silently; order is preserved
// among survivors. A nil or empty input yields an empty slice.
func Map(rawExperiences []contentful.RawExperience) []vo.ExperienceConfig {
	experiences := make([]vo.ExperienceConfig, 0, len(rawExperiences))
	for _, raw := range rawExperiences {
		candidate := mapExperience(raw)
		if !isValidExperience(candidate) {
			continue
		}
		experiences = append(experiences, candidate)
	}
	return experiences
}

// mapExperience builds the candidate config. The id falls back from
// the domain identifier to the generic system id, first non-empty
// wins in that order.
func mapExperience(raw contentful.RawExperience) vo.ExperienceConfig {
	candidate := vo.ExperienceConfig{
		ID:       raw.ExperienceID,
		Name:     raw.Name,
		Type:     raw.Type,
		Config:   raw.Config,
		Variants: mapVariants(raw.Variants.Items),
	}
	if candidate.ID == "" {
		candidate.ID = raw.Sys.ID
	}
	if raw.Audience != nil {
		candidate.Audience = &vo.Audience{
			ID:   raw.Audience.AudienceID,
			Name: raw.Audience.Name,
		}
	}
	return candidate
}

func mapVariants(rawVariants []contentful.RawVariant) []vo.VariantRef {
	variants := make([]vo.VariantRef, 0, len(rawVariants))
	for _, raw := range rawVariants {
		variants = append(variants, vo.VariantRef{
			ID:      raw.Sys.ID,
			Title:   raw.Title,
			Content: raw.Content,
		})
	}
	return variants
}

// isValidExperience is the local replacement for the vendor SDK's
// entry-shape check: an experience needs an identity and a name,
// anything else decodes to a non-experience member of the collection.
func isValidExperience(candidate vo.ExperienceConfig) bool {
	return candidate.ID != "" && candidate.Name != ""
}
