package transform

import "errors"

// Mode selects which fixed instruction set and generation parameters are sent
// to the provider.
type Mode string

const (
	ModeHumanize  Mode = "humanize"
	ModeRefine    Mode = "refine"
	ModeConcise   Mode = "concise"
	ModeAcademics Mode = "academics"
)

var ErrUnknownMode = errors.New("unknown transformation mode")

// Modes lists the four supported modes in route-registration order.
var Modes = []Mode{ModeHumanize, ModeRefine, ModeConcise, ModeAcademics}

func (m Mode) Valid() bool {
	_, ok := modeSpecs[m]
	return ok
}

func (m Mode) String() string {
	return string(m)
}

// Base is the capitalized mode name used in history list field names
// (transformHumanizeHistory).
func (m Mode) Base() string {
	return modeSpecs[m].base
}

// Label is the adjective form used in history item field names and user-facing
// messages (Humanized content, transformedHumanizedContent).
func (m Mode) Label() string {
	return modeSpecs[m].label
}

// HistoryListField is the envelope key holding the projected history items.
func (m Mode) HistoryListField() string {
	return "transform" + m.Base() + "History"
}

type modeSpec struct {
	base         string
	label        string
	systemPrompt string
	userPrefix   string
	temperature  float64
	maxTokens    int
}

// Generation parameters per mode. top_p is 0.9 and streaming off for all.
var modeSpecs = map[Mode]modeSpec{
	ModeHumanize: {
		base:         "Humanize",
		label:        "Humanized",
		systemPrompt: humanizePrompt,
		userPrefix:   "Transform the following content using these guidelines:\n\n",
		temperature:  0.3,
		maxTokens:    5000,
	},
	ModeRefine: {
		base:         "Refine",
		label:        "Refined",
		systemPrompt: refinePrompt,
		userPrefix:   "Transform the following content using refinement guidelines:\n\n",
		temperature:  0.4,
		maxTokens:    6000,
	},
	ModeConcise: {
		base:         "Concise",
		label:        "Concise",
		systemPrompt: concisePrompt,
		userPrefix:   "Transform the following content using compression guidelines:\n\n",
		temperature:  0.4,
		maxTokens:    4000,
	},
	ModeAcademics: {
		base:         "Academics",
		label:        "Academics",
		systemPrompt: academicsPrompt,
		userPrefix:   "Transform the following content using academics guidelines:\n\n",
		temperature:  0.4,
		maxTokens:    5000,
	},
}

const humanizePrompt = `You are a content transformation specialist. Rewrite the provided text so it reads like natural human writing while carrying exactly the same information.

Rules:
- Preserve the meaning, logical flow, and all technical terms exactly; add no new information and remove none.
- Keep the output within 5% of the original length. Do not expand, elaborate, or add filler.
- Never add citations, reference numbers, footnotes, or source mentions of any kind.
- Replace stiff, mechanical phrasing with plain alternatives ("utilize" becomes "use", "facilitate" becomes "enable") and vary sentence structure and openings so no robotic pattern remains.
- Match the register of the original; do not make formal text casual.

Return only the rewritten text, with no commentary.`

const refinePrompt = `You are an expert copy editor focused on elevating vocabulary. Rewrite the provided text using more polished, professional wording while preserving the meaning with complete fidelity.

Rules:
- Upgrade plain words to refined professional alternatives; keep specialized terminology intact.
- Keep the output within 5 words of the original length. Never add explanations, examples, or supplemental content.
- Preserve sentence count, paragraph structure, and logical order exactly.
- Never introduce citations, references, or sources.
- Eliminate casual or informal phrasing.

Return only the refined text, with no commentary.`

const concisePrompt = `You are an editor who compresses text. Rewrite the provided content to be as brief as possible while keeping every essential fact and claim.

Rules:
- Remove redundancy, filler phrases, and repetition; tighten sentence structure.
- Keep all key information, data, and technical terms; never change the meaning.
- Preserve the original paragraph order.
- Never add new content, citations, or references.

Return only the compressed text, with no commentary.`

const academicsPrompt = `You are an academic writing specialist. Rewrite the provided text in formal scholarly prose suitable for academic work.

Rules:
- Use precise, discipline-appropriate vocabulary and an impersonal, objective register.
- Preserve all facts, claims, and technical terms exactly; add no new arguments or evidence.
- Keep the output close to the original length; do not pad with hedging or boilerplate.
- Never fabricate citations or references; the output must contain none.

Return only the rewritten text, with no commentary.`
