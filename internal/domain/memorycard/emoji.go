package memorycard

import "unicode/utf8"

// DefaultEmoji is applied when a card has no emoji
const DefaultEmoji = "❤️"

// maxEmojiRunes bounds the emoji field; compound glyphs use several code points
const maxEmojiRunes = 8

var emojis = []string{"❤️", "🌟", "🎉", "🎂", "💐", "💍", "🎊", "🎁", "✨", "💖"}

// Emojis returns the emoji choices offered by the card creator
func Emojis() []string {
	out := make([]string, len(emojis))
	copy(out, emojis)
	return out
}

// IsCatalogEmoji reports whether e is one of the offered choices
func IsCatalogEmoji(e string) bool {
	for _, x := range emojis {
		if x == e {
			return true
		}
	}
	return false
}

func validEmoji(e string) bool {
	n := utf8.RuneCountInString(e)
	return n > 0 && n <= maxEmojiRunes
}
