package slacknotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/agenda"
)

const (
	agendaExcerptLimit = 300
	timeFormat         = "Mon, Jan 2 at 15:04 MST"
)

// reminderTemplates holds the message variants per escalation tier.
// {title} and {date} are substituted at send time.
var reminderTemplates = map[domain.ReminderTier][]string{
	domain.TierGentle: {
		"👋 Hey! Quick reminder to RSVP for *{title}* on {date}.",
		"🙏 Would love to know if you're joining *{title}* on {date}!",
		"📅 Friendly nudge: please RSVP for *{title}* happening {date}.",
	},
	domain.TierFirm: {
		"⚠️ Second reminder: your RSVP for *{title}* is still pending. The host needs to plan accordingly!",
		"🔔 This is your second nudge for *{title}* on {date}. Please respond!",
		"⏰ Getting close! We need your RSVP for *{title}* by end of day.",
	},
	domain.TierCheeky: {
		"🕵️ Your RSVP for *{title}* is still MIA. The meeting will proceed with or without you, but don't make us guess! 🤷",
		"👻 Are you ghosting this meeting? *{title}* on {date} needs your response. Last chance!",
		"🚨 FINAL CALL: *{title}* is happening {date}. Your non-response is now a conversation topic in itself. 😅",
		"💀 You've officially joined the serial-ghost club for *{title}*. Embrace the badge or respond now!",
	},
}

var badgeEmoji = map[domain.BadgeType]string{
	domain.BadgeAgendaNinja:    "🥷",
	domain.BadgeRSVPChampion:   "⚡",
	domain.BadgeSerialGhost:    "👻",
	domain.BadgeMeetingMonk:    "🧘",
	domain.BadgeStreakMaster:   "🔥",
	domain.BadgePunctualityPro: "⏰",
}

func renderTemplate(tmpl string, m *domain.Meeting) string {
	out := strings.ReplaceAll(tmpl, "{title}", m.Summary)
	return strings.ReplaceAll(out, "{date}", m.StartTime.Format(timeFormat))
}

func agendaExcerpt(raw string) string {
	if len(raw) <= agendaExcerptLimit {
		return raw
	}
	return raw[:agendaExcerptLimit] + "..."
}

func markdownSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

func headerBlock(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func contextBlock(id, text string) *slack.ContextBlock {
	return slack.NewContextBlock(id, slack.NewTextBlockObject(slack.MarkdownType, text, false, false))
}

// RSVPReminder nudges a single non-responder. The tier picks the tone.
func (n *Notifier) RSVPReminder(ctx context.Context, m *domain.Meeting, a domain.Attendee, tier domain.ReminderTier) error {
	variants, ok := reminderTemplates[tier]
	if !ok {
		variants = reminderTemplates[domain.TierGentle]
	}
	msg := renderTemplate(variants[n.pick(len(variants))], m)

	blocks := []slack.Block{markdownSection(msg)}
	if m.Agenda.Raw != "" {
		blocks = append(blocks, markdownSection("*📋 Agenda:*\n"+agendaExcerpt(m.Agenda.Raw)))
	}
	blocks = append(blocks,
		slack.NewDividerBlock(),
		contextBlock("rsvp_hint_"+m.EventID,
			fmt.Sprintf("📅 <https://calendar.google.com/calendar/event?eid=%s|Open in Calendar> and respond there.", m.EventID)),
	)

	return n.sendDM(ctx, a.Email, msg, blocks)
}

// MeetingCancelled tells the organizer their meeting was cancelled and
// includes a ready-to-paste agenda template so the reschedule passes.
func (n *Notifier) MeetingCancelled(ctx context.Context, m *domain.Meeting, reason string) error {
	suggestion := agenda.Suggest(m.Summary, len(m.Attendees), m.EndTime.Sub(m.StartTime))

	blocks := []slack.Block{
		headerBlock("🚫 Meeting Cancelled"),
		markdownSection(fmt.Sprintf("*%s* was cancelled.\n\n*Reason:* %s", m.Summary, reason)),
		markdownSection("To reschedule, add a real agenda. Here is a starting point:\n```" + suggestion.Template() + "```"),
		contextBlock("cancel_hint_"+m.EventID,
			"💡 _Good agendas include: Purpose, Expected Outcomes, and Key Discussion Points_"),
	}

	fallback := fmt.Sprintf("Your meeting %q was cancelled: %s", m.Summary, reason)
	return n.sendDM(ctx, m.Creator, fallback, blocks)
}

// QualityWarning tells the organizer the agenda passed but barely.
func (n *Notifier) QualityWarning(ctx context.Context, m *domain.Meeting) error {
	improvements := agenda.SuggestImprovements(m.Agenda.Raw)

	text := fmt.Sprintf("*%s* is approved, but the agenda scored %d/100.", m.Summary, m.QualityScore)
	if len(improvements) > 0 {
		text += "\n\n*How to improve:*\n• " + strings.Join(improvements, "\n• ")
	}

	blocks := []slack.Block{
		headerBlock("⚠️ Agenda Could Be Better"),
		markdownSection(text),
	}

	fallback := fmt.Sprintf("Agenda for %q scored %d/100", m.Summary, m.QualityScore)
	return n.sendDM(ctx, m.Creator, fallback, blocks)
}

// MandatoryDeclined tells the organizer a mandatory attendee declined.
func (n *Notifier) MandatoryDeclined(ctx context.Context, m *domain.Meeting, email string) error {
	blocks := []slack.Block{
		headerBlock("❌ Mandatory Attendee Declined"),
		markdownSection(fmt.Sprintf(
			"*%s* declined *%s* on %s. The meeting was auto-cancelled so you can find a slot that works.",
			email, m.Summary, m.StartTime.Format(timeFormat))),
	}

	fallback := fmt.Sprintf("%s declined %q", email, m.Summary)
	return n.sendDM(ctx, m.Creator, fallback, blocks)
}

// RoomReleased tells the organizer their unused room was given back.
func (n *Notifier) RoomReleased(ctx context.Context, m *domain.Meeting) error {
	blocks := []slack.Block{
		headerBlock("🏢 Room Released"),
		markdownSection(fmt.Sprintf(
			"No RSVPs came in for *%s*, so *%s* was released and the meeting cancelled.",
			m.Summary, m.Location)),
	}

	fallback := fmt.Sprintf("Room %s released for %q", m.Location, m.Summary)
	return n.sendDM(ctx, m.Creator, fallback, blocks)
}

// BadgeAwarded congratulates a user on a fresh badge.
func (n *Notifier) BadgeAwarded(ctx context.Context, email string, badge domain.BadgeType) error {
	emoji := badgeEmoji[badge]
	blocks := []slack.Block{
		headerBlock(emoji + " New Badge Unlocked!"),
		markdownSection(fmt.Sprintf("*%s* %s\n%s", badge.String(), emoji, badge.Description())),
	}

	fallback := fmt.Sprintf("You earned the %s badge!", badge)
	return n.sendDM(ctx, email, fallback, blocks)
}

// BadgeRevoked tells a user a badge no longer holds.
func (n *Notifier) BadgeRevoked(ctx context.Context, email string, badge domain.BadgeType) error {
	blocks := []slack.Block{
		markdownSection(fmt.Sprintf(
			"Your *%s* badge was retired. Keep at it and it comes back.", badge.String())),
	}

	fallback := fmt.Sprintf("Your %s badge was retired", badge)
	return n.sendDM(ctx, email, fallback, blocks)
}
