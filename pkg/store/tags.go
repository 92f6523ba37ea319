package store

import (
	"github.com/grovetools/tapview/pkg/models"
	"github.com/sirupsen/logrus"
)

// GroupedTags maps each supported category to its tags in list order.
type GroupedTags map[models.TagCategory][]models.TagInfo

// GroupTags partitions tags by the category prefix of their names.
// The result always holds the four supported categories. Tags with any other
// prefix are left out and reported to logger, which may be nil.
func GroupTags(tags []models.TagInfo, logger *logrus.Entry) GroupedTags {
	res := make(GroupedTags, len(models.TagCategories))
	for _, c := range models.TagCategories {
		res[c] = []models.TagInfo{}
	}
	for _, tag := range tags {
		category := tag.Category()
		if _, ok := res[category]; !ok {
			if logger != nil {
				logger.WithField("tag", tag.Name).Warnf("Tag %s has unsupported type", tag.Name)
			}
			continue
		}
		res[category] = append(res[category], tag)
	}
	return res
}

// Names returns the tag names of one category.
func (g GroupedTags) Names(category models.TagCategory) []string {
	names := make([]string, 0, len(g[category]))
	for _, tag := range g[category] {
		names = append(names, tag.Name)
	}
	return names
}
