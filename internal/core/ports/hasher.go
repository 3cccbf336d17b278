package ports

// Hasher defines the interface for computing content hashes of a source tree.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashTree returns the hex SHA-256 of every regular file under root whose extension
	// is in exts, keyed by slash-separated path relative to root. An empty exts matches
	// every file. A missing root yields an empty map.
	HashTree(root string, exts []string) (map[string]string, error)
}
