package blueprint

import "strings"

// ComponentKind is the closed set of component types a blueprint may declare.
type ComponentKind string

const (
	KindSource          ComponentKind = "Source"
	KindEventSource     ComponentKind = "EventSource"
	KindTransformer     ComponentKind = "Transformer"
	KindFilter          ComponentKind = "Filter"
	KindRouter          ComponentKind = "Router"
	KindAggregator      ComponentKind = "Aggregator"
	KindStreamProcessor ComponentKind = "StreamProcessor"
	KindController      ComponentKind = "Controller"
	KindAPIEndpoint     ComponentKind = "APIEndpoint"
	KindStore           ComponentKind = "Store"
	KindSink            ComponentKind = "Sink"
)

// Kinds lists every valid component kind in declaration order.
func Kinds() []ComponentKind {
	return []ComponentKind{
		KindSource,
		KindEventSource,
		KindTransformer,
		KindFilter,
		KindRouter,
		KindAggregator,
		KindStreamProcessor,
		KindController,
		KindAPIEndpoint,
		KindStore,
		KindSink,
	}
}

var kindIndex = func() map[string]ComponentKind {
	index := make(map[string]ComponentKind)
	for _, kind := range Kinds() {
		index[strings.ToLower(string(kind))] = kind
	}
	// Aliases seen in hand-written documents.
	index["api_endpoint"] = KindAPIEndpoint
	index["apiendpoint"] = KindAPIEndpoint
	index["event_source"] = KindEventSource
	index["stream_processor"] = KindStreamProcessor
	return index
}()

// KindOf resolves a free-form type string to a ComponentKind, tolerating
// casing and underscore variants. The second return reports whether the
// string named a known kind.
func KindOf(s string) (ComponentKind, bool) {
	kind, ok := kindIndex[strings.ToLower(strings.TrimSpace(s))]
	return kind, ok
}

// Valid reports whether the kind belongs to the closed set.
func (k ComponentKind) Valid() bool {
	_, ok := kindIndex[strings.ToLower(string(k))]
	return ok
}

// Durable-by-default kinds. Storage keeps what it is handed; everything else
// must opt in explicitly.
func (k ComponentKind) DefaultDurable() bool {
	return k == KindStore
}
