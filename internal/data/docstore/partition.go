package docstore

import (
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SyncPartitionKeys mirrors the route's partition source member into the
// physical partition attribute and every declared shadow alias. It runs
// once per document in the write pipeline, before the write is issued, and
// is idempotent: re-running it produces the same attribute values.
//
// Documents whose source member is missing or empty are skipped without
// mutating any shadow attribute; synchronizing an empty value would
// collide every such document onto the empty-string partition. The caller
// decides whether an unsynchronized document is writable (Put does not
// allow it).
func SyncPartitionKeys(item map[string]ddbtypes.AttributeValue, route Route) {
	source := stringAttr(item, route.PartitionSource)
	if source == "" {
		return
	}
	item[route.PartitionAttr] = &ddbtypes.AttributeValueMemberS{Value: source}
	for _, alias := range route.Aliases {
		item[alias] = &ddbtypes.AttributeValueMemberS{Value: source}
	}
}

func stringAttr(item map[string]ddbtypes.AttributeValue, name string) string {
	attr, ok := item[name]
	if !ok {
		return ""
	}
	s, ok := attr.(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return s.Value
}
