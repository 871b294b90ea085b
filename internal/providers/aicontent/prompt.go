package aicontent

import (
	"encoding/json"
	"fmt"
	"strings"

	"server/internal/domain"
)

// buildContentPrompt composes the strict instruction sent to the model: the
// firm facts and user answers embedded verbatim, then the exact output
// schema. The model is told to echo the inputs, never to embellish them.
func buildContentPrompt(facts domain.FirmFacts, answers domain.GenerationRequest) string {
	inputs, _ := json.Marshal(map[string]any{
		"firm_profile": facts,
		"user_answers": answers,
	})

	var b strings.Builder
	b.WriteString("You are a senior content strategist. Generate a comprehensive, professional lead magnet in JSON. ")
	b.WriteString("Follow ALL requirements. Output MUST be valid JSON ONLY (no Markdown, no prose). ")
	b.WriteString("Do not include any test or placeholder text. Use the inputs exactly.\n\n")
	b.WriteString("Style Instructions: ")
	b.WriteString(styleInstruction(answers.Industry))
	b.WriteString("\n\nInputs:\n")
	b.Write(inputs)
	b.WriteString("\n\nOutput Schema (keys must match EXACTLY):\n")
	b.WriteString(outputSchemaExample(facts.FirmName))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Use firm_profile values verbatim for company name, tagline, contact details, colors, and logo. Leave a field empty if the input is empty; never invent a value.\n")
	b.WriteString("- Write exactly 5 sections, each with 2 subsections.\n")
	b.WriteString("- Ground every section in main_topic, target_audience, and audience_pain_points.\n")
	b.WriteString("- Keep the tone professional; no exclamation-heavy or promotional copy.\n")
	return b.String()
}

func styleInstruction(industry string) string {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return "Use a style appropriate to the user's main_topic; do not assume architecture or sustainability."
	}
	if industry == "Commercial" {
		return "Use a sleek, modern color palette and emphasize adaptive reuse."
	}
	return fmt.Sprintf("Use a style aligned with the %s domain and audience.", industry)
}

func outputSchemaExample(firmName string) string {
	section := map[string]any{
		"title":   "<section title>",
		"content": "<1-2 detailed paragraphs with specific examples>",
		"subsections": []map[string]string{
			{"title": "<Sub 1>", "content": "<2-3 detailed sentences with specific information>"},
			{"title": "<Sub 2>", "content": "<2-3 detailed sentences with specific information>"},
		},
	}
	example, _ := json.Marshal(map[string]any{
		"style": map[string]string{
			"primary_color":   "<hex or CSS color, use primary_brand_color>",
			"secondary_color": "<hex or CSS color, use secondary_brand_color>",
			"accent_color":    "<hex or CSS color, use accent_brand_color>",
		},
		"brand": map[string]string{
			"logo_url": "<use provided logo_url if available>",
		},
		"cover": map[string]string{
			"title":           "<compose from lead_magnet_type + main_topic>",
			"subtitle":        "<use desired_outcome; summarize value proposition>",
			"company_name":    "<firm_name>",
			"company_tagline": "<tagline>",
		},
		"terms": map[string]any{
			"title":      "Terms of Use",
			"summary":    "<1 sentence>",
			"paragraphs": []string{"<2-3 sentences>", "<2-3 sentences>", "<2-3 sentences>"},
		},
		"contents": map[string]any{
			"items": []string{"<6 descriptive items for TOC>"},
		},
		"sections": []map[string]any{section, section, section, section, section},
		"contact": map[string]string{
			"title":                "<use call_to_action>",
			"description":          "<3-4 detailed sentences about contacting the firm>",
			"phone":                "<phone_number>",
			"email":                "<work_email>",
			"website":              "<firm_website>",
			"differentiator_title": "Why Choose " + coalesce(firmName, "Us"),
			"differentiator":       "<3-5 sentences highlighting unique value with specific examples>",
		},
	})
	return string(example)
}

// buildSloganPrompt keeps the slogan request short; the reply is a single
// line, not JSON.
func buildSloganPrompt(facts domain.FirmFacts, answers domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Generate a short, catchy slogan for a professional firm.\n")
	fmt.Fprintf(&b, "Firm Name: %s\n", coalesce(facts.FirmName, "A Professional Firm"))
	fmt.Fprintf(&b, "Specialization: %s\n", coalesce(answers.LeadMagnetType, "General Services"))
	fmt.Fprintf(&b, "Target Audience: %s\n", coalesce(strings.Join(answers.TargetAudience, ", "), "General Clients"))
	fmt.Fprintf(&b, "Pain Points: %s\n", coalesce(strings.Join(answers.PainPoints, ", "), "Finding the right partner"))
	fmt.Fprintf(&b, "Desired Outcome: %s\n", coalesce(answers.DesiredOutcome, "A successful engagement"))
	b.WriteString("\nBased on the above, create a slogan that is less than 10 words. Reply with the slogan only.")
	return b.String()
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
