package llm

import "strings"

const MergeInstruction = `You are given a report template and a set of report notes. Place the notes into the appropriate sections of the template, following the template's section headers and their order. Add the connective language needed for the report to read as continuous prose, but do not invent facts that are not in the notes.

Keep every section header on its own line, in upper case, exactly as it appears in the template. Return only the finished report text, with no commentary before or after it.`

const SummarizeInstruction = `Summarize the following document. Keep every upper-case section header on its own line and keep the order of sections. Preserve names, figures, dates and conclusions; drop repetition. Return only the summary text.`

// BuildMergePrompt formats the user content for a merge call.
func BuildMergePrompt(template, notes string) string {
	var sb strings.Builder
	sb.WriteString("TEMPLATE:\n")
	sb.WriteString(template)
	sb.WriteString("\n\n---\nNOTES:\n")
	sb.WriteString(notes)
	return sb.String()
}
