package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig returns the composite indexes the queries of this package need
func IndexConfig(prefix string) *fireconf.Config {
	names := collectionNames{prefix: prefix}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: names.name(TodosCollection),
				Indexes: []fireconf.Index{
					// ListNonArchived: archived ASC, id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "archived", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
