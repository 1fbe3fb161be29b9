// Package keeper moves audit documents from Kafka into Elasticsearch.
package keeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/audit"
)

// Reader is the part of *kafka.Reader the keeper needs.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Indexer stores a JSON document under id. An empty id lets the backend
// generate one.
type Indexer interface {
	Index(ctx context.Context, index, id string, body []byte) error
}

type ESIndexer struct {
	es *elasticsearch.Client
}

func NewESIndexer(es *elasticsearch.Client) *ESIndexer {
	return &ESIndexer{es: es}
}

func (i *ESIndexer) Index(ctx context.Context, index, id string, body []byte) error {
	opts := []func(*esapi.IndexRequest){i.es.Index.WithContext(ctx)}
	if id != "" {
		opts = append(opts, i.es.Index.WithDocumentID(id))
	}

	res, err := i.es.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch responded with %s", res.Status())
	}

	return nil
}

type Keeper struct {
	r       Reader
	idx     Indexer
	index   string
	workers int
}

func New(r Reader, idx Indexer, index string, workers int) *Keeper {
	if workers < 1 {
		workers = 1
	}
	return &Keeper{r: r, idx: idx, index: index, workers: workers}
}

// Run reads messages until ctx is cancelled or the reader is closed, and
// indexes them with a pool of workers. It returns once all workers exit.
func (k *Keeper) Run(ctx context.Context) {
	jobs := make(chan kafka.Message, k.workers*5) // buffer is needed to increase throughput
	var wg sync.WaitGroup
	wg.Add(k.workers)
	for workerID := 0; workerID < k.workers; workerID++ {
		go func(id int) {
			defer wg.Done()
			k.worker(ctx, jobs, id)
		}(workerID)
	}

	log.Infof("[keeper][%s] accepting documents...", k.index)
loop:
	for {
		msg, err := k.r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				break
			}
			log.Errorf("[keeper][%s] failed to read message from Kafka: %v", k.index, err)
			continue
		}
		log.Debugf("[keeper][%s] received message: %s", k.index, string(msg.Value))

		select {
		case jobs <- msg:
		case <-ctx.Done():
			break loop
		}
	}

	close(jobs)
	wg.Wait()
}

func (k *Keeper) worker(ctx context.Context, jobs <-chan kafka.Message, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Infof("[keeper][workerID:%d] context cancelled, exiting worker", workerID)
			return

		case msg, ok := <-jobs:
			if !ok {
				log.Infof("[keeper][workerID:%d] jobs channel closed, exiting worker", workerID)
				return
			}

			id, err := DocumentID(msg.Value)
			if err != nil {
				log.Errorf("[keeper][workerID:%d] failed to unmarshal document: %v", workerID, err)
				continue
			}

			if err := k.idx.Index(ctx, k.index, id, msg.Value); err != nil {
				log.Errorf("[keeper][workerID:%d] failed to index document: %v", workerID, err)
				continue
			}
			log.Infof("[keeper][workerID:%d][%s] document indexed", workerID, shorten(id))
		}
	}
}

// DocumentID derives a stable document ID so redelivered messages overwrite
// instead of duplicating. Request logs use service+request_id; moderation
// events use the flagged submission ID when present.
func DocumentID(value []byte) (string, error) {
	var doc struct {
		Kind      string `json:"kind"`
		Service   string `json:"service"`
		RequestID string `json:"request_id"`
		FlaggedID string `json:"flagged_id"`
		Source    string `json:"source"`
	}
	if err := json.Unmarshal(value, &doc); err != nil {
		return "", err
	}

	switch {
	case doc.Kind == audit.KindFlagged && doc.FlaggedID != "":
		return doc.FlaggedID, nil
	case doc.Kind == audit.KindFlagged && doc.RequestID != "":
		return doc.Service + doc.RequestID + ":" + doc.Source, nil
	case doc.RequestID != "":
		return doc.Service + doc.RequestID, nil
	default:
		return "", nil
	}
}

func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
