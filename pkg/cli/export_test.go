package cli

var (
	CollectionNames   = collectionNames
	CountIndexChanges = countIndexChanges
)
