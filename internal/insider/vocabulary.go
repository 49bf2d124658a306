package insider

import "github.com/guregu/null/v6"

// UnknownCode is the description of any code outside the vocabulary.
const UnknownCode = "Unknown"

// CodeVocabulary maps single-letter Form 4 transaction codes to descriptions.
// It has no mutators; build it once and share the pointer.
type CodeVocabulary struct {
	descriptions map[string]string
}

// NewCodeVocabulary returns the standard transaction code vocabulary.
func NewCodeVocabulary() *CodeVocabulary {
	return &CodeVocabulary{
		descriptions: map[string]string{
			"P": "Purchase",
			"S": "Sale",
			"A": "Grant/Award",
			"D": "Disposition",
			"F": "Payment",
			"M": "Conversion/Exercise",
			"G": "Gift",
			"V": "Voluntary",
			"J": "Other",
			"K": "Equity Swap",
			"L": "Small Acquisition",
			"U": "Tender",
		},
	}
}

// Describe returns the description for code, or UnknownCode.
func (v *CodeVocabulary) Describe(code null.String) string {
	if v == nil || !code.Valid {
		return UnknownCode
	}
	if desc, ok := v.descriptions[code.String]; ok {
		return desc
	}
	return UnknownCode
}

// Len is the number of known codes.
func (v *CodeVocabulary) Len() int {
	return len(v.descriptions)
}
