package hosted

// Documents are decoded loosely and validated by the schema package, since
// the hosted store does not enforce the post schema itself.

type postResponse struct {
	Post     map[string]any `json:"post"`
	Category map[string]any `json:"category"`
}

type postsResponse struct {
	Posts []map[string]any `json:"posts"`
}

type categoryResponse struct {
	Category map[string]any `json:"category"`
}

type categoriesResponse struct {
	Categories []map[string]any `json:"categories"`
}
