// Package ui provides the styled terminal output used outside the dashboard
// itself: the connection spinner, the SSH host picker shown by init, and the
// topology report.
//
// The dashboard frame is drawn by package render with raw escape sequences.
// Everything here goes through Lip Gloss and Bubble Tea instead, and is only
// used before the dashboard takes over the screen or by one-shot commands.
//
// # Color Scheme
//
//	ColorSuccess   (green)  - Healthy links, running services, passed checks
//	ColorError     (red)    - Failures
//	ColorWarning   (yellow) - Degraded but working
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color).
package ui
