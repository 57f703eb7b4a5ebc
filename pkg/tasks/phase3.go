// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

// Phase 3: First 100 Users (launcher tier). Turning the launch spike
// into a repeatable acquisition loop.
var phase3Tasks = []Task{
	{
		ID:           "phase3-1",
		Phase:        3,
		PhaseLabel:   "First 100 Users",
		Tier:         TierLauncher,
		Title:        "User Interview Script",
		Description:  "Talk to your first users before you build anything else. Five interviews will reorder your roadmap.",
		TimeEstimate: "1 hour prep + 30 min per interview",
		Icon:         "🎤",
		Category:     "Feedback",
		Steps: []Step{
			{
				Title:       "Recruit 5 users",
				Description: "Email everyone who signed up in week one. A personal two-line email from the founder gets 30-50% response rates at this stage.",
			},
			{
				Title:       "Ask about their life, not your product",
				Description: "The goal is understanding the situation that brought them to you. Feature opinions come last, if at all.",
			},
		},
		FormFields: []FormField{
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "target_audience", Type: FieldTextarea, Label: "Who are your current users?", Required: true},
			{ID: "open_questions", Type: FieldTextarea, Label: "What do you most want to learn from users?", Placeholder: "e.g., Why do people sign up but never create a project?"},
		},
		AI: &AIConfig{
			PromptTemplate: `You are a user research coach. Create a 30-minute user interview script.

Product: {app_description}
Users: {target_audience}
The founder wants to learn: {open_questions}

Produce:

## Opening (2 min)
How to set the tone and get permission to record.

## Background Questions (10 min)
5-6 questions about the user's context and the situation before they found the product. No product questions yet.

## Usage Questions (10 min)
5-6 questions about how they actually use the product, including the moment they decided to sign up.

## Closing (5 min)
Questions that surface what they'd miss if the product disappeared, plus the ask for a follow-up.

Every question must be open-ended. Flag any question that could be answered yes/no and rewrite it.`,
			Temperature: 0.6,
			MaxTokens:   1200,
		},
		DoneCriteria: []string{
			"5 interviews scheduled",
			"Script printed or in a doc you can glance at",
		},
		CommonMistakes: []string{
			"Pitching the roadmap instead of listening",
			`Asking "would you use X?" — people say yes to be polite`,
		},
	},
	{
		ID:           "phase3-2",
		Phase:        3,
		PhaseLabel:   "First 100 Users",
		Tier:         TierLauncher,
		Title:        "Onboarding Email Sequence",
		Description:  "Most signups never come back. A 4-email sequence over the first week is the cheapest retention lever you have.",
		TimeEstimate: "2-3 hours",
		Icon:         "✉️",
		Category:     "Retention",
		Steps: []Step{
			{
				Title:       "Define the activation moment",
				Description: "Pick the single action that predicts a user sticking around, and aim every email at it.",
			},
			{
				Title:       "Set up the automation",
				Description: "Trigger on signup, space emails at day 0, 1, 3, and 7. Plain text from the founder outperforms designed templates at this stage.",
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Required: true},
			{ID: "activation_action", Type: FieldText, Label: "What action means a user is activated?", Placeholder: "e.g., completes their first task", Required: true},
		},
		AI: &AIConfig{
			PromptTemplate: `You are an email copywriter for SaaS onboarding. Write a 4-email sequence, plain text, from the founder.

App: {app_name}
What it does: {app_description}
Activation action: {activation_action}

Write each email with a subject line and body (under 150 words):

## Email 1 (day 0): Welcome
Thank them, set expectations, one clear link to take the activation action.

## Email 2 (day 1): The activation nudge
Address the most likely reason they haven't done {activation_action} yet.

## Email 3 (day 3): Social proof or use case
Show how someone like them gets value.

## Email 4 (day 7): The honest check-in
Ask directly what stopped them, invite a reply. This email generates the best feedback you'll get all month.`,
			Temperature: 0.7,
			MaxTokens:   1400,
		},
		Tools: []Tool{
			{Name: "Loops", URL: "https://loops.so", FreeDetails: "Free up to 1,000 contacts, built for SaaS sequences."},
		},
		DoneCriteria: []string{
			"Sequence live and triggered by signup",
		},
		CommonMistakes: []string{
			"Emailing features instead of the one activation action",
		},
	},
	{
		// Checklist-only: instrumentation is hands-on work.
		ID:           "phase3-3",
		Phase:        3,
		PhaseLabel:   "First 100 Users",
		Tier:         TierLauncher,
		Title:        "Instrument Your Funnel",
		Description:  "Set up the five numbers that tell you whether the product is working: visits, signups, activation, week-1 retention, and paid conversion.",
		TimeEstimate: "2 hours",
		Icon:         "📊",
		Category:     "Feedback",
		Steps: []Step{
			{
				Title:       "Define the funnel events",
				Description: "One event per funnel stage, named consistently. Resist tracking everything; five events you check weekly beat fifty you never look at.",
			},
			{
				Title:       "Build a one-screen dashboard",
				Description: "If checking the numbers takes more than 30 seconds you will stop doing it.",
			},
		},
		DoneCriteria: []string{
			"All five funnel numbers visible on one screen",
			"Baseline values written down",
		},
		CommonMistakes: []string{
			"Tracking vanity metrics (page views, total signups) instead of rates between stages",
		},
	},
}
