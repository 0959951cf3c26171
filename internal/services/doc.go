// Package services holds shared plumbing for external tool clients:
// the error taxonomy used to classify failures as fatal or recoverable.
package services
