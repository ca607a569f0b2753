package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"glyph/internal/binder"
	"glyph/internal/corepipeline"
	"glyph/internal/funrec"
	"glyph/internal/positivity"
	"glyph/internal/typecheck"
	"glyph/internal/uastjson"
	"glyph/internal/variantret"
)

// stageEvent reports one pipeline stage starting or finishing. corepipeline
// itself exposes no event stream — its pipeline is one synchronous call —
// so runPipelineWithProgress below re-runs that same stage sequence one
// level up, giving the UI something to react to between stages.
type stageEvent struct {
	stage corepipeline.Stage
	done  bool
	err   bool
}

var stageTitles = [...]string{"bind", "variant-return", "fun-recursion", "positivity", "typecheck"}

type diagnoseModel struct {
	events  <-chan stageEvent
	spinner spinner.Model
	current int
	failed  bool
	done    bool
}

type stageMsg stageEvent
type pipelineDoneMsg struct{}

func newDiagnoseModel(events <-chan stageEvent) *diagnoseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &diagnoseModel{events: events, spinner: sp}
}

func (m *diagnoseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *diagnoseModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return pipelineDoneMsg{}
		}
		return stageMsg(ev)
	}
}

func (m *diagnoseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageMsg:
		m.current = int(msg.stage)
		if msg.done {
			if msg.err {
				m.failed = true
			}
		}
		return m, m.listen()
	case pipelineDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *diagnoseModel) View() string {
	style := lipgloss.NewStyle().Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	out := style.Render("glyphc diagnose") + "\n\n"
	for i, title := range stageTitles {
		switch {
		case i < m.current || (i == m.current && m.done && !m.failed):
			out += okStyle.Render("  ok   ") + title + "\n"
		case i == m.current && m.failed:
			out += failStyle.Render("  fail ") + title + "\n"
		case i == m.current:
			out += fmt.Sprintf("  %s %s\n", m.spinner.View(), title)
		default:
			out += "  ..   " + title + "\n"
		}
	}
	return out
}

// runPipelineWithProgress decodes the package at path and drives it
// through the same five stages corepipeline.Run does, reporting progress
// on a bubbletea model as each stage starts and finishes.
func runPipelineWithProgress(path string) (*uastjson.Decoded, corepipeline.Result, error) {
	decoded, err := loadPackage(path)
	if err != nil {
		return nil, corepipeline.Result{}, err
	}

	events := make(chan stageEvent)
	resultCh := make(chan corepipeline.Result, 1)

	go func() {
		defer close(events)
		result := runStagedWithEvents(decoded, events)
		resultCh <- result
	}()

	p := tea.NewProgram(newDiagnoseModel(events))
	if _, err := p.Run(); err != nil {
		return decoded, <-resultCh, fmt.Errorf("progress UI failed: %w", err)
	}
	return decoded, <-resultCh, nil
}

func runStagedWithEvents(decoded *uastjson.Decoded, events chan<- stageEvent) corepipeline.Result {
	emit := func(s corepipeline.Stage, done, failed bool) {
		events <- stageEvent{stage: s, done: done, err: failed}
	}

	emit(corepipeline.StageBind, false, false)
	prog, bindErrs := binder.BindFiles(decoded.Strings, decoded.Tree, decoded.Files, decoded.ExtraDeps)
	if len(bindErrs) > 0 {
		emit(corepipeline.StageBind, true, true)
		return corepipeline.Result{Stage: corepipeline.StageBind, BindErrors: bindErrs}
	}
	emit(corepipeline.StageBind, true, false)

	emit(corepipeline.StageVariantReturn, false, false)
	vr, vrErrs := variantret.Validate(prog)
	if len(vrErrs) > 0 {
		emit(corepipeline.StageVariantReturn, true, true)
		return corepipeline.Result{Stage: corepipeline.StageVariantReturn, VRErrors: vrErrs}
	}
	emit(corepipeline.StageVariantReturn, true, false)

	emit(corepipeline.StageFunRecursion, false, false)
	fr, frErrs := funrec.Validate(prog)
	if len(frErrs) > 0 {
		emit(corepipeline.StageFunRecursion, true, true)
		return corepipeline.Result{Stage: corepipeline.StageFunRecursion, FRErrors: frErrs}
	}
	emit(corepipeline.StageFunRecursion, true, false)

	emit(corepipeline.StagePositivity, false, false)
	pv, posErrs := positivity.Validate(prog)
	if len(posErrs) > 0 {
		emit(corepipeline.StagePositivity, true, true)
		return corepipeline.Result{Stage: corepipeline.StagePositivity, PosErrors: posErrs}
	}
	emit(corepipeline.StagePositivity, true, false)

	emit(corepipeline.StageTypecheck, false, false)
	checked, tcErrs, warnings := typecheck.Check(vr, fr, pv, decoded.Tree)
	if len(tcErrs) > 0 {
		emit(corepipeline.StageTypecheck, true, true)
		return corepipeline.Result{Stage: corepipeline.StageTypecheck, TCErrors: tcErrs, Warnings: warnings}
	}
	emit(corepipeline.StageTypecheck, true, false)
	return corepipeline.Result{Checked: &checked, Warnings: warnings}
}
