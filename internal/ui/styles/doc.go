// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the recochat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Colors (colors.go)

  - Blue - user messages and primary buttons
  - Violet - assistant messages
  - Rose - error messages and negative feedback
  - Emerald - positive feedback
  - Amber - selection and loading

# Theme (theme.go)

Theme groups the lipgloss styles used by each component:

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	bubble := theme.UserBubble.Render("hello")

Layout adapts to width via GetLayoutMode: narrow (< 60 columns), medium
(60-100) and wide.
*/
package styles
