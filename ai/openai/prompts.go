package openai

import "fmt"

const descriptionPrompt = `Provide a clear, detailed, and accurate description of the image from a document. The description should allow a reader to fully understand the image without seeing it.

Include:
1. Image Type: (e.g., photograph, chart, infographic, table, diagram).
2. Layout and Composition: Describe the structure, key elements, color scheme, and any labels, captions, legends, or highlights.
3. Content Details:
   - If a table: describe column headers, notable entries, and visible patterns or trends.
   - If a chart/graph: specify chart type, axis labels, legend items, and key insights.
   - If a diagram: describe shapes, flows, relationships, and labeled sections.
   - If a photograph: describe subjects, actions, setting, and visible branding.
4. Text Elements: Transcribe all visible text and describe where it appears and why (titles, labels, callouts, footnotes, etc.).
5. Visual Styling: Note colors, branding, icons, and emphasis techniques.
6. Purpose and Context: Explain the likely message or intent of the image in the document.

The description should be complete enough for someone to reconstruct the image accurately from your text.`

const contextTemplate = `%s

**Additional Context from Document:**
The image appears in the following context within the document:

%s

Please use this surrounding text to provide more accurate and contextually relevant descriptions of the image, especially for technical diagrams, charts, or figures that may be referenced in the text.`

// buildDescriptionPrompt creates the description prompt, folding in
// surrounding document text when available.
func buildDescriptionPrompt(contextText string) string {
	if contextText == "" {
		return descriptionPrompt
	}
	return fmt.Sprintf(contextTemplate, descriptionPrompt, contextText)
}
