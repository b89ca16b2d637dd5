package services

import (
	"strings"
	"unicode"
)

// SupportMessage is attached to entries that mention self-harm.
const SupportMessage = "It sounds like you are carrying something really heavy right now. You don't have to face it alone. " +
	"If you are in immediate danger, please contact your local emergency number, or reach a crisis line such as 988 (US) " +
	"or findahelpline.com for support in your country."

// selfHarmPhrases are stored in canonical form; see init.
var selfHarmPhrases = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"take my life",
	"end it all",
	"self harm",
	"cut myself",
	"hurt myself",
	"harm myself",
	"want to die",
	"wish i was dead",
	"not worth living",
	"better off dead",
	"end myself",
	"unalive",
}

func init() {
	for i, p := range selfHarmPhrases {
		selfHarmPhrases[i] = CleanText(p)
	}
}

var obfuscation = strings.NewReplacer(
	"@", "a",
	"4", "a",
	"3", "e",
	"!", "i",
	"1", "i",
	"0", "o",
	"$", "s",
	"5", "s",
	"7", "t",
	"+", "t",
	"а", "a", // Cyrillic
	"е", "e",
	"і", "i",
	"о", "o",
	"р", "p",
)

// CleanText normalizes text to canonical form: lower case, common character
// substitutions undone, non-letters turned into single spaces, and repeated
// letters collapsed.
func CleanText(text string) string {
	cleaned := obfuscation.Replace(strings.ToLower(text))

	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(collapseRepeats(builder.String())), " ")
}

// collapseRepeats reduces runs of the same letter to one letter.
// Example: "diiiie" -> "die", "kill kill" -> "kil kil"
func collapseRepeats(text string) string {
	var result strings.Builder
	lastChar := rune(0)
	lastWasLetter := false

	for _, char := range text {
		isLetter := unicode.IsLetter(char)
		if isLetter && lastWasLetter && char == lastChar {
			continue
		}
		result.WriteRune(char)
		lastChar = char
		lastWasLetter = isLetter
	}
	return result.String()
}

// ContainsConfirmedWord checks cleaned text against canonical phrases. Single
// words must match a whole word ("skill" does not match "kill"); phrases
// match as substrings.
func ContainsConfirmedWord(cleanedText string, phrases []string) (bool, []string) {
	var confirmed []string
	words := strings.Fields(cleanedText)

	for _, phrase := range phrases {
		if !strings.Contains(cleanedText, phrase) {
			continue
		}
		if len(strings.Fields(phrase)) > 1 {
			confirmed = append(confirmed, phrase)
			continue
		}
		for _, w := range words {
			if w == phrase {
				confirmed = append(confirmed, phrase)
				break
			}
		}
	}
	return len(confirmed) > 0, confirmed
}

// SafetyNote returns SupportMessage when text mentions self-harm, else "".
func SafetyNote(text string) string {
	if ok, _ := ContainsConfirmedWord(CleanText(text), selfHarmPhrases); ok {
		return SupportMessage
	}
	return ""
}
