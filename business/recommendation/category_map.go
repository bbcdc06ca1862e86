package recommendation

// UnknownCategory is returned for cluster ids the map does not cover.
const UnknownCategory = "Unknown"

// ClusterCategoryMap is fixed by the trained model: each centroid index was
// labelled once, offline.
var ClusterCategoryMap = map[int]string{
	0: "DKV",
	1: "PSI",
	2: "Umum",
}

func CategoryFor(clusterID int) string {
	if category, ok := ClusterCategoryMap[clusterID]; ok {
		return category
	}
	return UnknownCategory
}
