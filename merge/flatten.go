package merge

import (
	"slices"

	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/jsondoc"
)

// Flatten builds the visualization companion of an operation result.
//
// Grouped operations map each sub-type to its elements, in the order the
// sub-types first appear:
//
//	{"PERSON":[{"score":0.9,"type":"PERSON","text":"Ana",...}],"LOCATION":[...]}
//
// Wrapped operations list the elements under the result key:
//
//	{"keyPhrases":[{"score":0.9,"text":"a day",...}]}
//
// It returns false for operations without a companion.
func Flatten(op core.Operation, result *jsondoc.Value) (*jsondoc.Value, bool) {
	switch op.Flatten() {
	case core.FlattenGroupByType:
		flat := jsondoc.NewObject()
		for _, elem := range elements(op, result) {
			typ, ok := elem.Lookup(op.GroupPath()...)
			if !ok {
				continue
			}
			group, ok := flat.Get(typ.Text())
			if !ok {
				group = jsondoc.NewArray()
				flat.Set(typ.Text(), group)
			}
			group.Append(elem)
		}
		return flat, true
	case core.FlattenWrapList:
		flat := jsondoc.NewObject()
		flat.Set(op.ResultKey(), jsondoc.NewArray(slices.Clone(elements(op, result))...))
		return flat, true
	}
	return nil, false
}

func elements(op core.Operation, result *jsondoc.Value) []*jsondoc.Value {
	list, ok := result.Get(op.ResultKey())
	if !ok {
		return nil
	}
	return list.Items()
}
