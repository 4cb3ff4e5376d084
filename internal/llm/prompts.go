package llm

import "fmt"

// The classification instruction carries the category definitions. These
// definitions are part of the external contract: changing them changes what
// the labels mean across analyses.
const classificationInstruction = `You are an AI assistant that analyzes YouTube comments. ` +
	`For each comment provided in the JSON list, classify its sentiment into one of the following categories: ` +
	`'Positive', 'Neutral', 'Critical', or 'Toxic'.
Definitions:
- Positive: Expresses happiness, praise, agreement, or constructive enthusiasm.
- Neutral: Impartial, lacks strong emotion, simple statements, questions, or factual observations.
- Critical: Points out flaws, disagreements, or suggestions for improvement, but is generally respectful and aims to be constructive. Can be negative in tone but not abusive.
- Toxic: Hateful, abusive, offensive, spam, derogatory, harassment, or deliberately disruptive without constructive value.
Return your response as a single JSON array where each object contains the original 'id' of the comment and its assigned 'category'.
Example response format: [{"id": "commentId1", "category": "Positive"}, {"id": "commentId2", "category": "Toxic"}]`

// The toxic summary must describe themes without reproducing the content.
// This is a content-safety requirement, not a style choice.
const toxicSummaryInstruction = `You are an AI assistant tasked with summarizing themes from a list of TOXIC YouTube comments. ` +
	`Your goal is to inform a content creator about the general nature of the toxic comments ` +
	`WITHOUT quoting any offensive language, specific attacks, or user details directly. ` +
	`Focus on the types of toxicity (e.g., spam, insults, off-topic aggression, hate speech towards a group) ` +
	`and common themes if any. The summary should be neutral, concise, and help the creator understand ` +
	`the issues without being exposed to the raw toxicity. ` +
	`Provide a brief summary, perhaps 2-3 sentences or a few bullet points.`

func summaryInstruction(category string) string {
	return fmt.Sprintf(`You are an AI assistant. Summarize the key themes and main points from the following YouTube comments `+
		`which have been classified as '%s'. `+
		`The summary should be concise (e.g., 2-4 bullet points or a short paragraph) and capture the essence of the feedback in this category. `+
		`Focus on recurring ideas, sentiments, or suggestions.`, category)
}
