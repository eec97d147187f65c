package speech

import "strings"

// VoiceType selects the broad voice category. It always resolves to a
// concrete value; callers that omit it get VoiceFeminine.
type VoiceType string

const (
	VoiceFeminine  VoiceType = "feminine"
	VoiceMasculine VoiceType = "masculine"
)

// VoiceTypes lists every supported voice type, in the order the
// invalidation reconstructor enumerates them.
var VoiceTypes = []VoiceType{VoiceFeminine, VoiceMasculine}

// Style is an optional reading style. When set it takes precedence over
// VoiceType for backend voice selection.
type Style string

const (
	StyleProfessorial Style = "professorial"
	StylePodcast      Style = "podcast"
	StyleBedtimeStory Style = "bedtime-story"
)

// DefaultLanguage is used whenever a request carries no language or an
// unsupported one.
const DefaultLanguage = "es"

// SupportedLanguages lists the primary language subtags the engine caches
// audio for. The invalidation reconstructor enumerates exactly this set.
var SupportedLanguages = []string{"es", "en"}

// VoiceSpec is the canonical description of a requested voice. Type and
// Language are always populated after resolution.
type VoiceSpec struct {
	Type        VoiceType `json:"type"`
	Style       Style     `json:"style,omitempty"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language"`
}

// StyleOrType returns the value backends and the fingerprint use for voice
// selection: the style when present, the type otherwise.
func (v VoiceSpec) StyleOrType() string {
	if v.Style != "" {
		return string(v.Style)
	}
	return string(v.Type)
}

// ResolveVoice normalizes raw, possibly-missing request fields into a fully
// populated VoiceSpec. It never fails: absent or invalid inputs degrade to
// defaults so the synthesis pipeline is never blocked here.
func ResolveVoice(voiceType, style, description, language string) VoiceSpec {
	spec := VoiceSpec{
		Type:        VoiceFeminine,
		Style:       Style(style),
		Description: description,
		Language:    ResolveLanguage(language),
	}
	if strings.EqualFold(strings.TrimSpace(voiceType), string(VoiceMasculine)) {
		spec.Type = VoiceMasculine
	}
	return spec
}

// ResolveLanguage reduces a language code to its primary subtag (en-US -> en)
// and coerces anything outside the supported set to the default language.
func ResolveLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	for _, supported := range SupportedLanguages {
		if code == supported {
			return code
		}
	}
	return DefaultLanguage
}
