package tracing

// Span names.
const (
	SpanRenderPass  = "render.pass"
	SpanSettle      = "render.settle"
	SpanManagerHook = "manager.hook"
)

// Span attribute keys.
const (
	AttrPassID       = "render.pass.id"
	AttrRevision     = "render.revision"
	AttrInstances    = "render.instances"
	AttrDefinition   = "component.definition"
	AttrHandle       = "component.handle"
	AttrHook         = "manager.hook"
	AttrCapabilities = "component.capabilities"
	AttrPending      = "render.pending"
)
