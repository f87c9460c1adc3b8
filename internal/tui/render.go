package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardwiz/cardwiz/internal/model"
)

// renderConversation renders all messages for the viewport.
func (m Model) renderConversation() string {
	var sections []string
	for _, msg := range m.session.Messages() {
		sections = append(sections, m.renderMessage(msg))
	}
	return strings.Join(sections, "\n\n")
}

// renderMessage renders one conversation message, expanding structured
// payloads into their card or report layouts.
func (m Model) renderMessage(msg model.ConversationMessage) string {
	label := m.styles.BotLabel.Render("CardWiz")
	if msg.Sender == model.SenderUser {
		label = m.styles.UserLabel.Render("You")
	}

	body := m.styles.MessageText.Render(msg.Text)
	switch msg.StructuredType {
	case model.StructuredRecommendation:
		var view model.RecommendationView
		if err := json.Unmarshal(msg.Payload, &view); err == nil {
			body = m.renderRecommendation(view)
		}
	case model.StructuredMissedSavings:
		var report model.MissedSavingsReport
		if err := json.Unmarshal(msg.Payload, &report); err == nil {
			body = m.renderMissedSavings(report)
		}
	}

	return label + "\n" + body
}

// renderRecommendation renders the card recommendation panel.
func (m Model) renderRecommendation(view model.RecommendationView) string {
	var b strings.Builder

	b.WriteString(m.styles.CardTitle.Render(view.BestCardName))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Spend %s %.2f, earn %s %.2f (%.2f%%)",
		view.Currency, view.SpendAmount,
		view.Currency, view.EstimatedReward,
		view.EffectivePercentage)

	for _, reason := range view.Reasoning {
		b.WriteString("\n")
		b.WriteString(m.styles.Bullet.Render("• " + reason))
	}

	if view.Warning != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render("! " + view.Warning))
	}

	if len(view.ComparisonRows) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderComparison(view.ComparisonRows))
	}

	return m.styles.Card.Render(b.String())
}

// renderComparison renders the per-card comparison table.
func (m Model) renderComparison(rows []model.ComparisonRow) string {
	lines := []string{
		m.styles.TableHeader.Render(fmt.Sprintf("%-24s %10s %8s  %s", "Card", "Value", "Rate", "Verdict")),
	}
	for _, row := range rows {
		lines = append(lines, m.styles.TableCell.Render(
			fmt.Sprintf("%-24s %10.2f %7.2f%%  %s",
				truncate(row.CardName, 24), row.EstimatedValue, row.EffectivePercentage, row.Verdict)))
	}
	return strings.Join(lines, "\n")
}

// renderMissedSavings renders a statement analysis report.
func (m Model) renderMissedSavings(report model.MissedSavingsReport) string {
	var b strings.Builder

	s := report.Summary
	b.WriteString(m.styles.CardTitle.Render("Missed savings report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d transactions, %s %.2f spent",
		s.TransactionsAnalyzed, s.Currency, s.TotalSpend)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Earned %s %.2f, optimal %s %.2f, missed %s %.2f",
		s.Currency, s.TotalActualRewards,
		s.Currency, s.TotalOptimalRewards,
		s.Currency, s.TotalMissedSavings)

	top := report.TopOpportunities(5)
	if len(top) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.styles.TableHeader.Render("Top opportunities"))
		for _, row := range top {
			b.WriteString("\n")
			b.WriteString(m.styles.Bullet.Render(fmt.Sprintf(
				"• %s: used %s, %s would have earned %.2f more",
				row.Merchant, row.ActualCardName, row.OptimalCardName, row.MissedValue)))
		}
	}

	return m.styles.Card.Render(b.String())
}

// truncate shortens s to max characters with an ellipsis.
func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
