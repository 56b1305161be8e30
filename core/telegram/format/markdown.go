package format

import "strings"

// mdV2Specials lists every character MarkdownV2 treats as markup.
// https://core.telegram.org/bots/api#markdownv2-style
const mdV2Specials = "_*[]()~`>#+-=|{}.!\\"

var mdV2Replacer = buildReplacer(mdV2Specials)

func buildReplacer(specials string) *strings.Replacer {
	pairs := make([]string, 0, len(specials)*2)
	for _, r := range specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeMarkdownV2 escapes user-supplied text so it renders literally
// under Telegram's MarkdownV2 parse mode.
func EscapeMarkdownV2(text string) string {
	return mdV2Replacer.Replace(text)
}
