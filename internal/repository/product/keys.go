package product

// DefaultKeyPrefix namespaces every key the repository writes.
const DefaultKeyPrefix = "storefront:"

// VectorDim is the dimension of the ranking vector [0, 0, price].
const VectorDim = 3

func productPrefix(prefix string) string { return prefix + "product:" }

func productKey(prefix, id string) string { return productPrefix(prefix) + id }

func indexName(prefix string) string { return prefix + "products:idx" }
