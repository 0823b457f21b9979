package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var itemsTrained = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mimic_items_trained",
	Help: "Number of training items added to the corpus",
})

var postsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mimic_posts_published",
	Help: "Number of posts published, by platform",
}, []string{"platform"})

var publishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mimic_publish_errors",
	Help: "Number of failed publish calls, by platform",
}, []string{"platform"})

var composeFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mimic_compose_failures",
	Help: "Number of cycles where no acceptable text was generated",
})

var corpusSize = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "mimic_corpus_size",
	Help: "Current number of stored training items",
})
