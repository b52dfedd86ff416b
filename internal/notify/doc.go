// Package notify turns analyses, pipeline summaries and proposal actions into
// Slack Block Kit messages and emails. Builders only format; delivery is the
// job of a ports.Notifier.
package notify
