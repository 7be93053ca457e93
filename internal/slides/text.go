package slides

import (
	"strings"

	slides "google.golang.org/api/slides/v1"
)

// Summarize extracts the text of every slide and its speaker notes.
func Summarize(p *slides.Presentation) *Presentation {
	out := &Presentation{
		PresentationID: p.PresentationId,
		Title:          p.Title,
		URL:            presentationURL(p.PresentationId),
		Slides:         make([]Slide, 0, len(p.Slides)),
	}
	for i, page := range p.Slides {
		s := Slide{Index: i + 1, ObjectID: page.ObjectId}
		for _, el := range page.PageElements {
			s.Texts = appendElementText(s.Texts, el)
		}
		s.Notes = speakerNotes(page)
		out.Slides = append(out.Slides, s)
	}
	return out
}

func appendElementText(texts []string, el *slides.PageElement) []string {
	switch {
	case el == nil:
	case el.Shape != nil:
		if t := textContent(el.Shape.Text); t != "" {
			texts = append(texts, t)
		}
	case el.Table != nil:
		for _, row := range el.Table.TableRows {
			var cells []string
			for _, cell := range row.TableCells {
				cells = append(cells, textContent(cell.Text))
			}
			if strings.Join(cells, "") != "" {
				texts = append(texts, strings.Join(cells, " | "))
			}
		}
	case el.ElementGroup != nil:
		for _, child := range el.ElementGroup.Children {
			texts = appendElementText(texts, child)
		}
	}
	return texts
}

func textContent(t *slides.TextContent) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, te := range t.TextElements {
		if te.TextRun != nil {
			b.WriteString(te.TextRun.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

func speakerNotes(page *slides.Page) string {
	if page.SlideProperties == nil || page.SlideProperties.NotesPage == nil {
		return ""
	}
	notes := page.SlideProperties.NotesPage
	var id string
	if notes.NotesProperties != nil {
		id = notes.NotesProperties.SpeakerNotesObjectId
	}
	for _, el := range notes.PageElements {
		if el.ObjectId == id && el.Shape != nil {
			return textContent(el.Shape.Text)
		}
	}
	return ""
}

func presentationURL(id string) string {
	return "https://docs.google.com/presentation/d/" + id + "/edit"
}
