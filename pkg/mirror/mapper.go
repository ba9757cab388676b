package mirror

// MapProperties converts an item into the property set written to the destination.
// The state is passed through verbatim; the destination rejects values it does not know.
func MapProperties(item RemoteItem, schema Schema) Properties {
	labels := make([]Label, 0, len(item.Labels))
	for _, l := range item.Labels {
		labels = append(labels, Label{Name: l.Name})
	}

	return Properties{
		Schema: schema,
		State:  item.State,
		Key:    item.Key,
		Title:  item.Title,
		Labels: labels,
	}
}
