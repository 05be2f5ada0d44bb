package minuted

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQdrantLocation = "http://localhost:6333"

func TestNewEngine(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		engine, err := NewEngine(tmpDir, testQdrantLocation)
		require.NoError(t, err)
		require.NotNil(t, engine)
		defer engine.Close()

		assert.NotNil(t, engine.MeetingRepository())
		assert.NotNil(t, engine.JobRepository())
		assert.NotNil(t, engine.AskMemoryRepository())
		assert.NotNil(t, engine.VectorIndex())
		assert.NotNil(t, engine.backend)
		assert.NotNil(t, engine.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file path where a directory is expected.
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		engine, err := NewEngine(tmpFile, testQdrantLocation)
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("error with empty qdrant location", func(t *testing.T) {
		engine, err := NewEngine(filepath.Join(t.TempDir(), "db"), "")
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestEngine_Close(t *testing.T) {
	engine, err := NewEngine(t.TempDir(), testQdrantLocation)
	require.NoError(t, err)
	require.NotNil(t, engine)

	assert.NoError(t, engine.Close())
}

func TestEngine_FactoryMethods(t *testing.T) {
	engine, err := NewEngine(t.TempDir(), testQdrantLocation)
	require.NoError(t, err)
	require.NotNil(t, engine)
	defer engine.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := engine.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create retriever", func(t *testing.T) {
		retriever, err := engine.NewRetriever()
		require.NoError(t, err)
		require.NotNil(t, retriever)
	})

	t.Run("can create answerer", func(t *testing.T) {
		answerer, err := engine.NewAnswerer()
		require.NoError(t, err)
		require.NotNil(t, answerer)
	})
}
