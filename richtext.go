// Package richtext provides processing for rich-text editor documents in the
// ProseMirror/TipTap JSON format. Its core is the paywall processor, which
// truncates a document at its paywall separator and appends a membership
// prompt, so readers without a subscription see only the free portion.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, bluemonday/).
package richtext
