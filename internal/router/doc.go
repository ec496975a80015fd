// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps navigation paths to views.
//
// # Key Types
//
//   - View: ViewChat or ViewDashboard
//   - History: back/forward stack of visited paths
//
// # Usage
//
//	h := router.NewHistory(cfg.UI.StartPath)
//	h.Push(router.PathDashboard)
//	switch h.View() {
//	case router.ViewDashboard:
//	    // show statistics
//	}
package router
