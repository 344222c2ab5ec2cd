package simplelisting

import (
	"context"

	"github.com/google/uuid"
)

// Hook system allows extending listing builds without modifying core code.
// Hooks are called at specific points of the build lifecycle. Hooks cannot
// fail a build; the degradation contract holds regardless of what they do.

// Hooks defines all available lifecycle hooks
type Hooks struct {
	// Build lifecycle hooks
	BeforeBuild []BeforeBuildHook
	AfterBuild  []AfterBuildHook

	// Normalization hooks
	AfterNormalize []AfterNormalizeHook

	// Degradation hooks
	OnDegrade []DegradeHook
}

// HookContext carries information through the hook chain
type HookContext struct {
	Context   context.Context
	Metadata  map[string]interface{} // Custom metadata passed between hooks
	StopChain bool                   // Set to true to stop processing remaining hooks
}

// NewHookContext creates a new hook context
func NewHookContext(ctx context.Context) *HookContext {
	return &HookContext{
		Context:  ctx,
		Metadata: make(map[string]interface{}),
	}
}

// Build Lifecycle Hooks

// BeforeBuildHook is called before a build starts; it may adjust the
// configuration for this build only.
type BeforeBuildHook func(hctx *HookContext, cfg *BlockConfig)

// AfterBuildHook is called after a listing is assembled
type AfterBuildHook func(hctx *HookContext, listing *Listing)

// Normalization Hooks

// AfterNormalizeHook is called after each record is normalized into an item
type AfterNormalizeHook func(hctx *HookContext, record *ContentRecord, item *ListItem)

// Degradation Hooks

// DegradeHook is called when a collaborator error is absorbed
type DegradeHook func(hctx *HookContext, recordID uuid.UUID, field string, err error)

// Hook execution helpers

// executeBeforeBuild runs all BeforeBuild hooks
func (h *Hooks) executeBeforeBuild(ctx context.Context, cfg *BlockConfig) {
	if len(h.BeforeBuild) == 0 {
		return
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.BeforeBuild {
		hook(hctx, cfg)
		if hctx.StopChain {
			break
		}
	}
}

// executeAfterBuild runs all AfterBuild hooks
func (h *Hooks) executeAfterBuild(ctx context.Context, listing *Listing) {
	if len(h.AfterBuild) == 0 {
		return
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.AfterBuild {
		hook(hctx, listing)
		if hctx.StopChain {
			break
		}
	}
}

// executeAfterNormalize runs all AfterNormalize hooks
func (h *Hooks) executeAfterNormalize(ctx context.Context, record *ContentRecord, item *ListItem) {
	if len(h.AfterNormalize) == 0 {
		return
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.AfterNormalize {
		hook(hctx, record, item)
		if hctx.StopChain {
			break
		}
	}
}

// executeOnDegrade runs all OnDegrade hooks
func (h *Hooks) executeOnDegrade(ctx context.Context, recordID uuid.UUID, field string, err error) {
	if len(h.OnDegrade) == 0 {
		return
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.OnDegrade {
		hook(hctx, recordID, field, err)
		if hctx.StopChain {
			break
		}
	}
}

// Common hook implementations (examples)

// LoggingHooks logs build lifecycle points
func LoggingHooks(logger func(format string, args ...interface{})) *Hooks {
	return &Hooks{
		AfterBuild: []AfterBuildHook{
			func(hctx *HookContext, listing *Listing) {
				logger("Listing built: %d items (view all: %t)", len(listing.Items), listing.ViewAll != nil)
			},
		},
		AfterNormalize: []AfterNormalizeHook{
			func(hctx *HookContext, record *ContentRecord, item *ListItem) {
				logger("Item normalized: %s (%s)", item.Title, item.Kind)
			},
		},
		OnDegrade: []DegradeHook{
			func(hctx *HookContext, recordID uuid.UUID, field string, err error) {
				logger("Degraded %s for record %s: %v", field, recordID, err)
			},
		},
	}
}

// MetricsHooks tracks build metrics
func MetricsHooks(metrics interface {
	IncrementCounter(name string)
	RecordValue(name string, value int64)
}) *Hooks {
	return &Hooks{
		AfterBuild: []AfterBuildHook{
			func(hctx *HookContext, listing *Listing) {
				metrics.IncrementCounter("listing.built")
				metrics.RecordValue("listing.items", int64(len(listing.Items)))
			},
		},
		OnDegrade: []DegradeHook{
			func(hctx *HookContext, recordID uuid.UUID, field string, err error) {
				metrics.IncrementCounter("listing.degraded")
			},
		},
	}
}

// MergeHooks combines hook sets in order; useful when composing LoggingHooks
// with application hooks.
func MergeHooks(sets ...*Hooks) *Hooks {
	merged := &Hooks{}
	for _, set := range sets {
		if set == nil {
			continue
		}
		merged.BeforeBuild = append(merged.BeforeBuild, set.BeforeBuild...)
		merged.AfterBuild = append(merged.AfterBuild, set.AfterBuild...)
		merged.AfterNormalize = append(merged.AfterNormalize, set.AfterNormalize...)
		merged.OnDegrade = append(merged.OnDegrade, set.OnDegrade...)
	}
	return merged
}
