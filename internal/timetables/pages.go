package timetables

import (
	"context"
	"fmt"
	"slices"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/courses"
	"github.com/timetable-viewer/internal/statistics"
	"github.com/timetable-viewer/internal/timetable"
)

// AllTerms is the term filter that selects every term.
const AllTerms = "all"

type TermView struct {
	Term      backend.Term
	Timetable *timetable.Timetable
	Courses   []courses.Row
}

type BlockView struct {
	Block        backend.Block
	RankingClass statistics.RankingClass
	Terms        []TermView
}

// Page holds the rendered blocks of a program or block page. Every
// timetable on the page shares Palette.
type Page struct {
	Program *backend.Program
	Blocks  []BlockView
	// TermNames are the sorted names of every term on the page, selected or
	// not.
	TermNames []string
	Term      string
	Palette   *timetable.Palette
}

// ProgramPage renders every block of a program, keeping only the terms
// named term unless term is AllTerms or empty.
func (s *Service) ProgramPage(ctx context.Context, programID int, term string, measurer timetable.Measurer) (*Page, error) {
	data, err := s.Program(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("program %d: %w", programID, err)
	}
	page := newPage(term)
	page.Program = &data.Program
	renderer := timetable.NewRenderer(s.logger, page.Palette, measurer)
	for _, block := range data.Blocks {
		page.addBlock(renderer, block, block.Terms)
	}
	return page, nil
}

// BlockPage renders a single block.
func (s *Service) BlockPage(ctx context.Context, blockID int, term string, measurer timetable.Measurer) (*Page, error) {
	data, err := s.BlockTimetable(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", blockID, err)
	}
	page := newPage(term)
	renderer := timetable.NewRenderer(s.logger, page.Palette, measurer)
	page.addBlock(renderer, data.Block, data.Terms)
	return page, nil
}

func newPage(term string) *Page {
	if term == "" {
		term = AllTerms
	}
	return &Page{
		Term:    term,
		Palette: timetable.NewPalette(),
	}
}

func (p *Page) addBlock(renderer *timetable.Renderer, block backend.Block, terms []backend.Term) {
	view := BlockView{
		Block:        block,
		RankingClass: statistics.Class(block.Ranking),
	}
	view.Block.Terms = nil
	for _, term := range terms {
		if !slices.Contains(p.TermNames, term.Name) {
			p.TermNames = append(p.TermNames, term.Name)
			slices.Sort(p.TermNames)
		}
		if p.Term != AllTerms && term.Name != p.Term {
			continue
		}
		view.Terms = append(view.Terms, renderTerm(renderer, term))
	}
	p.Blocks = append(p.Blocks, view)
}

func renderTerm(renderer *timetable.Renderer, term backend.Term) TermView {
	view := TermView{Term: term}
	meetings, err := term.Meetings()
	if err != nil {
		view.Timetable = renderer.RenderJSON(term.Courses)
		return view
	}
	view.Timetable = renderer.Render(meetings)
	view.Courses = courses.Rows(meetings)
	return view
}

// Terms returns the term views of the page in block order.
func (p *Page) Terms() []TermView {
	var terms []TermView
	for _, block := range p.Blocks {
		terms = append(terms, block.Terms...)
	}
	return terms
}
