// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

// Phase 4: Growth (pro tier). Repeatable channels once the core loop
// retains users.
var phase4Tasks = []Task{
	{
		ID:           "phase4-1",
		Phase:        4,
		PhaseLabel:   "Growth",
		Tier:         TierPro,
		Title:        "SEO Content Plan",
		Description:  "Map the search terms your users type before they know your product exists, and plan the articles that capture them.",
		TimeEstimate: "3-4 hours",
		Icon:         "🔍",
		Category:     "Acquisition",
		Steps: []Step{
			{
				Title:       "Mine your user interviews for language",
				Description: "The phrases users used to describe their problem are your keywords. They rarely match the words on your landing page.",
			},
			{
				Title:       "Prioritize by intent, not volume",
				Description: `A 50-searches-per-month "how do I X" query with buying intent beats a 5,000-volume informational term.`,
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "target_audience", Type: FieldTextarea, Label: "Who is your target user?", Required: true},
			{ID: "user_language", Type: FieldTextarea, Label: "Phrases users use to describe their problem", Placeholder: "From interviews, support emails, community posts"},
		},
		AI: &AIConfig{
			PromptTemplate: `You are an SEO strategist for bootstrapped SaaS products.

App: {app_name}
What it does: {app_description}
Target user: {target_audience}
Language users actually use: {user_language}

Produce:

## 10 Keyword Targets
For each: the query, the search intent (informational / comparison / transactional), and why this user would type it. Prioritize high-intent over high-volume.

## 5 Article Outlines
For the five highest-intent keywords: a working title, the H2 structure, and the natural place the product earns a mention without forcing it.

## Internal Linking Note
One paragraph on how these five articles should link to each other and to the landing page.`,
			Temperature: 0.6,
			MaxTokens:   1800,
		},
		DoneCriteria: []string{
			"10 keywords chosen and 5 outlines written",
			"First article scheduled",
		},
		CommonMistakes: []string{
			"Writing for keywords you wish users searched instead of what they actually type",
		},
	},
	{
		ID:           "phase4-2",
		Phase:        4,
		PhaseLabel:   "Growth",
		Tier:         TierPro,
		Title:        "Pricing Page Revision",
		Description:  "Revisit pricing with real usage data. Most indie products are underpriced and the pricing page undersells the paid tier.",
		TimeEstimate: "2-3 hours",
		Icon:         "💰",
		Category:     "Monetization",
		Steps: []Step{
			{
				Title:       "Segment your paying users",
				Description: "Who pays, what do they have in common, and which feature pushed them over? That feature belongs at the top of the paid column.",
			},
			{
				Title:       "Test a higher anchor",
				Description: "Add a higher tier even if nobody buys it. The anchor alone typically lifts mid-tier conversion.",
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "current_pricing", Type: FieldTextarea, Label: "Current tiers and prices", Required: true},
			{ID: "conversion_blockers", Type: FieldTextarea, Label: "What do users say stops them from paying?"},
		},
		AI: &AIConfig{
			PromptTemplate: `You are a SaaS pricing consultant who works with bootstrapped founders.

App: {app_name}
What it does: {app_description}
Current pricing: {current_pricing}
Objections heard from users: {conversion_blockers}

Produce:

## Pricing Diagnosis
2-3 paragraphs: what the current structure signals to buyers and where it leaks revenue.

## Proposed Tier Structure
Concrete tiers with names, price points, and the single headline feature per tier. Include a high anchor tier.

## Objection Handling
For each objection listed, the pricing page copy change that addresses it.`,
			Temperature: 0.6,
			MaxTokens:   1500,
		},
		DoneCriteria: []string{
			"Revised pricing live",
			"Before/after conversion baseline recorded",
		},
		CommonMistakes: []string{
			"Adding features to tiers instead of raising prices",
		},
	},
	{
		// Checklist-only: a recurring operating habit, nothing to generate.
		ID:           "phase4-3",
		Phase:        4,
		PhaseLabel:   "Growth",
		Tier:         TierPro,
		Title:        "Weekly Growth Review",
		Description:  "A 30-minute weekly ritual: review the funnel numbers, pick one experiment, kill one thing that isn't working.",
		TimeEstimate: "30 min / week",
		Icon:         "🗓️",
		Category:     "Operations",
		Steps: []Step{
			{
				Title:       "Same time, same numbers, every week",
				Description: "Calendar-block it. Review the five funnel numbers against last week and write one sentence on what moved.",
			},
			{
				Title:       "One experiment in flight at a time",
				Description: "More than one concurrent experiment and you can't attribute the result.",
			},
		},
		DoneCriteria: []string{
			"Recurring calendar block exists",
			"Four consecutive weekly reviews logged",
		},
		CommonMistakes: []string{
			"Starting new experiments before reading the results of the last one",
		},
	},
}
