package vango

// Context provides dependency injection through the component tree.
// Create a context with CreateContext, provide values with Provide,
// and consume values with Use or Lookup.
//
// Example:
//
//	var ThemeContext = vango.CreateContext("light")
//
//	root.Mount(nil, "App", func() {
//	    ThemeContext.Provide("dark")
//	})
//
//	// in a descendant
//	theme := ThemeContext.Use()
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// defaultValue is returned when no provider is found
	defaultValue T
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
// The default value is returned by Use() when no provider is found
// in the component tree.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	// Use the context pointer itself as the key to ensure uniqueness
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide stores value on the current component scope. Descendants see it
// through Use and Lookup; siblings and ancestors do not.
func (c *Context[T]) Provide(value T) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(c.key, value)
	}
}

// Use retrieves the context value from the nearest provider ancestor.
// If no provider is found, returns the default value.
func (c *Context[T]) Use() T {
	if v, ok := c.Lookup(); ok {
		return v
	}
	return c.defaultValue
}

// Lookup retrieves the context value from the nearest provider ancestor
// and reports whether one was found. A component never sees the value it
// provides itself.
func (c *Context[T]) Lookup() (T, bool) {
	owner := getCurrentOwner()
	if owner != nil {
		if isInRender() {
			owner.TrackHook(HookContext)
		}
		if parent := owner.parent; parent != nil {
			if value, ok := parent.LookupValue(c.key); ok {
				if typed, ok := value.(T); ok {
					return typed, true
				}
			}
		}
	}
	var zero T
	return zero, false
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}

// SetValue sets a value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// LookupValue retrieves a value from this Owner or its parents and reports
// whether any scope held the key.
func (o *Owner) LookupValue(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		cur.valuesMu.RLock()
		val, ok := cur.values[key]
		cur.valuesMu.RUnlock()
		if ok {
			return val, true
		}
	}
	return nil, false
}
