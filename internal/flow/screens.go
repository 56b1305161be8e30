package flow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vilarso/cropservicebot/core/telegram/format"
	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/presenter"
	"github.com/vilarso/cropservicebot/internal/session"
)

// Screen texts are MarkdownV2; static copy avoids special characters and
// user-supplied content goes through format.EscapeMarkdownV2.

func row(btns ...presenter.Button) []presenter.Button { return btns }

func btn(text, unique, data string) presenter.Button {
	return presenter.Button{Text: text, Unique: unique, Data: data}
}

func backRow() []presenter.Button {
	return row(btn("⬅️ Back", UniqueNavBack, ""))
}

func mainMenuRow() []presenter.Button {
	return row(btn("🏠 Main menu", UniqueNavMain, ""))
}

func problemLine(problem string) string {
	if problem == "" {
		return ""
	}
	return "⚠️ " + format.EscapeMarkdownV2(problem) + "\n\n"
}

func screenMainMenu() presenter.View {
	return presenter.View{
		Text: "👋 *Job board*\n\nPost an ad, browse what others offer, or manage your posts",
		Keyboard: [][]presenter.Button{
			row(btn("➕ Post an ad", UniqueMenuAdd, "")),
			row(btn("🔍 Browse ads", UniqueMenuSearch, "")),
			row(btn("🗂 My ads", UniqueMenuMy, "")),
			row(btn("ℹ️ Help", UniqueMenuHelp, "")),
		},
	}
}

func screenHelp() presenter.View {
	text := strings.Join([]string{
		"ℹ️ *How this board works*",
		"",
		"➕ Post a job offer or a job request in one of the fixed categories",
		"🔍 Browse ads by category, newest first",
		"🗂 Manage your own ads: edit the text within 15 minutes, delete anytime",
		"🕒 Ads disappear automatically after 7 days",
	}, "\n")
	return presenter.View{
		Text:     text,
		Keyboard: [][]presenter.Button{mainMenuRow()},
	}
}

func screenChooseType() presenter.View {
	return presenter.View{
		Text: "What kind of ad is this?",
		Keyboard: [][]presenter.Button{
			row(btn("💼 Job offer", UniquePickType, "offer")),
			row(btn("🤝 Job request", UniquePickType, "request")),
			backRow(),
		},
	}
}

func screenChooseCategory(unique string) presenter.View {
	rows := make([][]presenter.Button, 0, len(listing.Categories)+1)
	for i, c := range listing.Categories {
		rows = append(rows, row(btn(c.Label, unique, strconv.Itoa(i))))
	}
	rows = append(rows, backRow())
	return presenter.View{Text: "Pick a category", Keyboard: rows}
}

func screenAskDescription(d session.Draft, problem string) presenter.View {
	text := fmt.Sprintf(
		"%s%s *%s* · %s\n\n✍️ Describe the job in up to %d characters",
		problemLine(problem),
		d.Kind.Emoji(),
		format.EscapeMarkdownV2(d.Kind.Label()),
		format.EscapeMarkdownV2(d.Category),
		listing.MaxDescriptionLen,
	)
	return presenter.View{Text: text, Keyboard: [][]presenter.Button{backRow()}}
}

func screenAskContact(problem string) presenter.View {
	text := problemLine(problem) +
		"📞 How should people reach you?\n\n" +
		"Send a phone number like 0991234567 or \\+380991234567, " +
		"or a Telegram handle like @username\n" +
		"Skip to use your own handle"
	return presenter.View{
		Text: text,
		Keyboard: [][]presenter.Button{
			row(btn("⏭ Skip", UniqueSkipContact, "")),
			backRow(),
		},
	}
}

func screenConfirm(d session.Draft) presenter.View {
	contact := d.Contact
	if contact == "" {
		contact = "your Telegram handle"
	}
	text := fmt.Sprintf(
		"Here is your ad:\n\n%s *%s* · %s\n📝 %s\n📞 %s\n\nPublish it?",
		d.Kind.Emoji(),
		format.EscapeMarkdownV2(d.Kind.Label()),
		format.EscapeMarkdownV2(d.Category),
		format.EscapeMarkdownV2(d.Description),
		format.EscapeMarkdownV2(contact),
	)
	return presenter.View{
		Text: text,
		Keyboard: [][]presenter.Button{
			row(btn("✅ Publish", UniqueConfirm, "")),
			backRow(),
		},
	}
}

func listingBlock(l *listing.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *Ad \\#%d* · %s\n", l.Kind.Emoji(), l.ID, format.EscapeMarkdownV2(l.Kind.Label()))
	fmt.Fprintf(&b, "📂 %s\n", format.EscapeMarkdownV2(l.Category))
	fmt.Fprintf(&b, "📝 %s\n", format.EscapeMarkdownV2(l.Description))
	switch {
	case l.Contact != "":
		fmt.Fprintf(&b, "📞 %s\n", format.EscapeMarkdownV2(l.Contact))
	case l.OwnerHandle != nil && *l.OwnerHandle != "":
		fmt.Fprintf(&b, "📞 @%s\n", format.EscapeMarkdownV2(*l.OwnerHandle))
	}
	fmt.Fprintf(&b, "🕒 %s", format.EscapeMarkdownV2(l.CreatedAt.Format("02.01.2006")))
	return b.String()
}

func pageRow(p Page, unique string) []presenter.Button {
	var nav []presenter.Button
	if p.HasPrev() {
		nav = append(nav, btn("◀️", unique, strconv.Itoa(p.PrevOffset())))
	}
	if p.HasNext() {
		nav = append(nav, btn("▶️", unique, strconv.Itoa(p.NextOffset())))
	}
	return nav
}

func screenBrowse(category string, items []listing.Listing, p Page) presenter.View {
	if p.Total == 0 {
		return presenter.View{
			Text:     fmt.Sprintf("📂 *%s*\n\nNo ads here yet", format.EscapeMarkdownV2(category)),
			Keyboard: [][]presenter.Button{backRow()},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📂 *%s* · page %d of %d · %d ads\n", format.EscapeMarkdownV2(category), p.Number(), p.Count(), p.Total)
	for i := range items {
		b.WriteString("\n")
		b.WriteString(listingBlock(&items[i]))
		b.WriteString("\n")
	}

	rows := [][]presenter.Button{}
	if nav := pageRow(p, UniqueBrowsePage); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, backRow())
	return presenter.View{Text: b.String(), Keyboard: rows}
}

func screenMyListings(items []listing.Listing, p Page, now time.Time) presenter.View {
	if p.Total == 0 {
		return presenter.View{
			Text: "🗂 *My ads*\n\nYou have no ads on the board",
			Keyboard: [][]presenter.Button{
				row(btn("➕ Post an ad", UniqueMenuAdd, "")),
				mainMenuRow(),
			},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗂 *My ads* · page %d of %d · %d total\n", p.Number(), p.Count(), p.Total)
	rows := [][]presenter.Button{}
	for i := range items {
		l := &items[i]
		b.WriteString("\n")
		b.WriteString(listingBlock(l))
		b.WriteString("\n")

		id := strconv.FormatInt(l.ID, 10)
		controls := []presenter.Button{}
		if l.CanEdit(now) {
			controls = append(controls, btn(fmt.Sprintf("✏️ #%d", l.ID), UniqueEdit, id))
		}
		controls = append(controls, btn(fmt.Sprintf("🗑 #%d", l.ID), UniqueDelete, id))
		rows = append(rows, controls)
	}

	if nav := pageRow(p, UniqueMyPage); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, row(btn("➕ Post an ad", UniqueMenuAdd, "")))
	rows = append(rows, mainMenuRow())
	return presenter.View{Text: b.String(), Keyboard: rows}
}

func screenEditPrompt(l *listing.Listing, problem string) presenter.View {
	text := fmt.Sprintf(
		"%s✏️ Editing *ad \\#%d*\n\nCurrent text:\n📝 %s\n\nSend the new description",
		problemLine(problem),
		l.ID,
		format.EscapeMarkdownV2(l.Description),
	)
	return presenter.View{Text: text, Keyboard: [][]presenter.Button{backRow()}}
}
