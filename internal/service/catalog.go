package service

// StaticCatalog is a TaskCatalog backed by a fixed id to title map, as
// loaded from configuration.
type StaticCatalog map[string]string

func (c StaticCatalog) Title(taskID string) string {
	if title, ok := c[taskID]; ok && title != "" {
		return title
	}
	return taskID
}

// titleOrID resolves a title through catalog, falling back to the id.
func titleOrID(catalog TaskCatalog, taskID string) string {
	if catalog == nil {
		return taskID
	}
	if title := catalog.Title(taskID); title != "" {
		return title
	}
	return taskID
}
