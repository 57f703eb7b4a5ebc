// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

// Phase 1: Pre-Launch (free tier). The foundation every indie developer
// needs before announcing anything publicly.
var phase1Tasks = []Task{
	{
		ID:           "phase1-1",
		Phase:        1,
		PhaseLabel:   "Pre-Launch",
		Tier:         TierFree,
		Title:        "Landing Page That Converts",
		Description:  "Build a focused landing page that explains what your app does in one sentence and gets visitors to sign up or buy. This is the single most important asset before you launch.",
		TimeEstimate: "3-5 hours",
		Icon:         "🚀",
		Category:     "Foundation",
		Steps: []Step{
			{
				Title:       "Write your one-liner",
				Description: `Before touching any design tool, nail the sentence that explains your app. Use the formula: "[App name] helps [target user] [achieve outcome] without [frustrating thing they currently deal with]."`,
				Subtasks: []Subtask{
					{Title: "Draft 5 one-liner variations", Description: "Don't stop at your first attempt — write at least five versions before choosing."},
					{Title: "Get feedback from 2 non-technical people", Description: `Ask someone outside your field: "What does this app do?" Their confusion reveals your blind spots.`},
					{Title: "Lock in the winner", Description: "Pick the clearest version, not the cleverest one."},
				},
			},
			{
				Title:       "Structure the page",
				Description: `Use a proven layout that guides visitors from "I'm curious" to "I'll try this." Every section has one job.`,
				Subtasks: []Subtask{
					{Title: "Hero: headline + sub-headline + primary CTA", Description: "The headline is your one-liner. Sub-headline adds 1 sentence of context. CTA is one action."},
					{Title: "Problem: 3 bullet points of pain", Description: "Describe the frustrating situation your target user is in before they find you. Use their language, not yours."},
					{Title: "Solution: how your app fixes it", Description: "Explain the mechanism, not the marketing. What does the app actually do?"},
					{Title: "Proof: screenshot, testimonial, or metric", Description: "If you have zero users, use a screenshot + your own story."},
					{Title: "Pricing + final CTA", Description: "End with the same CTA as the hero so people don't have to scroll back up."},
				},
			},
			{
				Title:       "Install analytics",
				Description: "You need analytics from day one so you can see what's working. Plausible is the best default: lightweight, privacy-friendly, and gives you the numbers that actually matter.",
				Subtasks: []Subtask{
					{Title: "Add the tracking script to your page head", Description: "One line of HTML. Takes 2 minutes."},
					{Title: "Set up a goal for your CTA click", Description: "Track when someone clicks your primary CTA so you know your conversion rate."},
				},
			},
		},
		FormFields: []FormField{
			{ID: "app_name", Type: FieldText, Label: "App name", Placeholder: "e.g., LaunchPilot", Required: true},
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do? (1-3 sentences)", Placeholder: "e.g., LaunchPilot is a 32-task launch checklist for indie developers.", Required: true},
			{ID: "target_audience", Type: FieldTextarea, Label: "Who is your target user?", Placeholder: "e.g., Indie developers who have built their first SaaS app.", Required: true},
			{ID: "key_features", Type: FieldTextarea, Label: "Top 3 features or benefits (one per line)", Placeholder: "Guided 32-task checklist organized by launch phase", Required: true},
		},
		AI: &AIConfig{
			PromptTemplate: `You are a conversion copywriter who specializes in landing pages for developer tools.

App name: {app_name}
What it does: {app_description}
Target user: {target_audience}
Key features/benefits: {key_features}

Generate the following copy sections:

## 3 Headline Variations
Each headline should be clear, specific, and explain the core outcome. Avoid hype words. Format: one per line.

## Sub-headline (1 sentence)
Expands on the headline with one more specific detail about who it's for or how it works.

## Problem Section (3 bullets)
Three pain points your target user experiences before finding {app_name}. Use "you" language.

## Solution Section (2-3 sentences)
How {app_name} solves those problems. Focus on the mechanism and outcome, not marketing language.

## Primary CTA Text (3 options)
Short, action-oriented. Should tell them exactly what happens when they click.`,
			Temperature: 0.7,
			MaxTokens:   1200,
		},
		Templates: []Template{
			{Title: "Headline formula pack", Content: "[App name] helps [target user] [achieve outcome] without [frustrating thing]."},
		},
		Tools: []Tool{
			{Name: "Carrd", URL: "https://carrd.co", FreeDetails: "Landing pages from $19/year, live in 2 hours with zero code."},
			{Name: "Plausible", URL: "https://plausible.io", FreeDetails: "Privacy-friendly analytics, free 30-day trial, no credit card."},
		},
		DoneCriteria: []string{
			"Page is live on a custom domain",
			"A stranger can say what the app does after 10 seconds",
			"Analytics shows your own test visit",
		},
		CommonMistakes: []string{
			"Writing the page for other developers instead of the actual target user",
			"Adding sections (FAQ, team, roadmap) before there is traffic to justify them",
		},
	},
	{
		ID:           "phase1-2",
		Phase:        1,
		PhaseLabel:   "Pre-Launch",
		Tier:         TierFree,
		Title:        "Define Your Launch Audience",
		Description:  "Decide exactly who you are launching to and where they already hang out. Everything else in the playbook gets easier once this is specific.",
		TimeEstimate: "1-2 hours",
		Icon:         "🎯",
		Category:     "Foundation",
		Steps: []Step{
			{
				Title:       "Narrow to one primary segment",
				Description: "Pick the single user type most likely to pay in the first 30 days. You can widen later; you cannot launch to everyone.",
				Subtasks: []Subtask{
					{Title: "List every plausible segment", Description: "Write them all down before ranking."},
					{Title: "Rank by pain and reachability", Description: "Highest pain you can actually reach wins."},
				},
			},
		},
		FormFields: []FormField{
			{ID: "app_description", Type: FieldTextarea, Label: "What does your app do?", Placeholder: "1-3 sentences", Required: true},
			{ID: "target_audience", Type: FieldTextarea, Label: "Who might use it? (everyone you can think of)", Placeholder: "List every plausible user type", Required: true},
			{ID: "current_users", Type: FieldText, Label: "Current user count (rough)", Placeholder: "e.g., 12 beta users"},
			{
				ID:    "channels",
				Type:  FieldCheckboxes,
				Label: "Where does your audience hang out?",
				Options: []Option{
					{Value: "twitter", Label: "X / Twitter"},
					{Value: "reddit", Label: "Reddit"},
					{Value: "hackernews", Label: "Hacker News"},
					{Value: "discord", Label: "Discord communities"},
					{Value: "linkedin", Label: "LinkedIn"},
				},
			},
			{
				ID:    "pricing_model",
				Type:  FieldSelect,
				Label: "Pricing model",
				Options: []Option{
					{Value: "free", Label: "Free"},
					{Value: "freemium", Label: "Freemium"},
					{Value: "paid", Label: "Paid only"},
				},
			},
		},
		AI: &AIConfig{
			PromptTemplate: `You are a positioning strategist for indie software products.

Product: {app_description}
Target audience so far: {target_audience}
Current traction: {current_users}
Channels the maker can reach: {channels_list}
Pricing model: {pricing_model}

Produce:

## Primary Segment (1 paragraph)
The single most promising user segment to launch to first, with reasoning grounded in the channels listed.

## Ideal User Profile
Role, context, trigger event, and the exact frustration that makes them search for a tool like this.

## Channel Plan
For each channel listed above, one sentence on how to show up there without being spammy.`,
			Temperature: 0.6,
			MaxTokens:   1000,
		},
		DoneCriteria: []string{
			"One primary segment written down",
			"Top two channels chosen",
		},
		CommonMistakes: []string{
			`Choosing "developers" as the segment — that is a job title, not a segment`,
		},
	},
	{
		// Checklist-only task: no AI configuration on purpose.
		ID:           "phase1-3",
		Phase:        1,
		PhaseLabel:   "Pre-Launch",
		Tier:         TierFree,
		Title:        "Set Up Your Payment Stack",
		Description:  "Wire up payments before launch day so the first person who wants to pay you actually can.",
		TimeEstimate: "2-3 hours",
		Icon:         "💳",
		Category:     "Foundation",
		Steps: []Step{
			{
				Title:       "Pick a merchant of record or payment processor",
				Description: "Paddle/Lemon Squeezy handle global sales tax for you; Stripe gives you lower fees but you own tax compliance.",
				Subtasks: []Subtask{
					{Title: "Compare fees against your price point", Description: "MoR fees hurt less at higher price points."},
					{Title: "Create the account and complete verification", Description: "Verification can take days — do not leave this for launch week."},
				},
			},
			{
				Title:       "Test the full purchase flow",
				Description: "Buy your own product with a test card, then refund it. Broken checkout on launch day is unrecoverable attention loss.",
			},
		},
		Tools: []Tool{
			{Name: "Lemon Squeezy", URL: "https://lemonsqueezy.com", FreeDetails: "Merchant of record, no monthly fee, 5% + 50¢ per transaction."},
			{Name: "Stripe", URL: "https://stripe.com", FreeDetails: "2.9% + 30¢, you handle tax compliance."},
		},
		DoneCriteria: []string{
			"A real test purchase and refund completed end to end",
		},
		CommonMistakes: []string{
			"Launching with a waitlist instead of a checkout because payments felt like a chore",
		},
	},
}
