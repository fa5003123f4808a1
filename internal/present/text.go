// Package present renders battle reports as styled terminal text.
package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"battlecore/internal/battle"
	"battlecore/internal/combat"
	"battlecore/internal/report"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	damageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	effectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B48EF7"))
	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	endStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// TextDirector writes every directed report to out.
type TextDirector struct {
	out io.Writer
}

func NewTextDirector(out io.Writer) *TextDirector {
	return &TextDirector{out: out}
}

// Direct reports true when at least one line was written.
func (d *TextDirector) Direct(entries []*report.Entry, bc *battle.BuildContext) bool {
	var lines []string
	for _, e := range entries {
		lines = appendEntry(lines, e, bc, 0)
	}
	if len(lines) == 0 {
		return false
	}
	turn, stage := 0, ""
	if bc != nil {
		turn, stage = bc.Turn, bc.Stage.String()
	}
	header := headerStyle.Render(fmt.Sprintf("── turn %d · %s ──", turn, stage))
	fmt.Fprintln(d.out, lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n")))
	return true
}

func appendEntry(lines []string, e *report.Entry, bc *battle.BuildContext, depth int) []string {
	text := Line(e, func(h uint32) string { return nameOf(bc, h) })
	next := depth
	if text != "" {
		lines = append(lines, strings.Repeat("  ", depth)+text)
		next = depth + 1
	}
	for _, c := range e.Children {
		lines = appendEntry(lines, c, bc, next)
	}
	return lines
}

func nameOf(bc *battle.BuildContext, h uint32) string {
	if bc != nil && bc.Lookup != nil {
		if info, ok := bc.Lookup(combat.Handle(h)); ok && info.Name != "" {
			return info.Name
		}
	}
	return fmt.Sprintf("#%d", h)
}

// Line renders one entry without its children. Grouping entries that carry
// nothing to say render as "".
func Line(e *report.Entry, name func(uint32) string) string {
	switch e.Type {
	case report.TurnStart:
		return noteStyle.Render(fmt.Sprintf("turn %d begins", e.Amount))
	case report.EffectTurnStart:
		if len(e.Children) == 0 {
			return ""
		}
		return noteStyle.Render(fmt.Sprintf("%s's effects", name(e.Target)))
	case report.EffectTick:
		s := fmt.Sprintf("%s suffers %d from effect %d (hp %d)", name(e.Target), e.Amount, effectCode(e), e.HP)
		if e.Killed {
			s += " and falls"
		}
		return damageStyle.Render(s)
	case report.EffectExpired:
		return effectStyle.Render(fmt.Sprintf("effect %d on %s wore off", effectCode(e), name(e.Target)))
	case report.EffectMaxStack:
		return effectStyle.Render(fmt.Sprintf("effect %d on %s is at max stack", effectCode(e), name(e.Target)))
	case report.PlanResolve:
		skill := e.Note
		if skill == "" {
			skill = fmt.Sprintf("skill %d", e.Skill)
		}
		return fmt.Sprintf("%s uses %s", name(e.Actor), skill)
	case report.ActiveDefinition:
		return ""
	case report.Damage:
		s := fmt.Sprintf("%s hits %s for %d (hp %d)", name(e.Actor), name(e.Target), e.Amount, e.HP)
		if e.Killed {
			s += " and defeats it"
		}
		return damageStyle.Render(s)
	case report.PartDamage:
		s := fmt.Sprintf("part %d of %s takes %d (hp %d)", e.Part, name(e.Target), e.Amount, e.HP)
		if e.Note != "" {
			s += " " + e.Note
		}
		if e.Killed {
			s += ", broken"
		}
		return damageStyle.Render(s)
	case report.ApplyEffect:
		st := e.Effect
		if st == nil {
			st = &report.EffectStatus{}
		}
		return effectStyle.Render(fmt.Sprintf("%s applies effect %d to %s: stack %d, %d turns [%s]",
			name(e.Actor), st.Code, name(e.Target), st.Stack, st.Turn, e.AddResult))
	case report.BattleEnd:
		return endStyle.Render(fmt.Sprintf("battle over: %s after %d turns", e.Note, e.Amount))
	}
	return string(e.Type)
}

func effectCode(e *report.Entry) int {
	if e.Effect == nil {
		return 0
	}
	return e.Effect.Code
}
