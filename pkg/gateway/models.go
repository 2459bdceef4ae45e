package gateway

import "github.com/a88883284/iflow-sdk-bridge/pkg/gateway/types"

// catalogCreated is the fixed creation timestamp advertised for every
// catalog entry.
const catalogCreated = 1735689600

// FormatModelList wraps the configured catalog as a models-list
// response.
func FormatModelList(catalog []string) *types.ModelList {
	list := &types.ModelList{Object: "list", Data: make([]types.Model, 0, len(catalog))}
	for _, id := range catalog {
		list.Data = append(list.Data, types.Model{
			ID:      id,
			Object:  "model",
			Created: catalogCreated,
			OwnedBy: "iflow-bridge",
		})
	}
	return list
}
