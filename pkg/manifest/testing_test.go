package manifest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/relcat/pkg/integrations"
)

// fakeRepo serves manifests from memory and counts downloads.
type fakeRepo struct {
	mu    sync.Mutex
	poms  map[string]string
	calls map[string]int
	total atomic.Int32
	delay time.Duration
}

func newFakeRepo(poms map[string]string) *fakeRepo {
	return &fakeRepo{poms: poms, calls: map[string]int{}}
}

func (f *fakeRepo) FetchPOM(ctx context.Context, groupID, artifactID, version string) ([]byte, error) {
	f.total.Add(1)
	key := groupID + ":" + artifactID + ":" + version
	f.mu.Lock()
	f.calls[key]++
	pom, ok := f.poms[key]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if !ok {
		return nil, fmt.Errorf("fetch %s: %w", key, integrations.ErrNotFound)
	}
	return []byte(pom), nil
}

func (f *fakeRepo) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

const parentPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <groupId>org.hibernate</groupId>
  <artifactId>hibernate-search-parent</artifactId>
  <version>3.4.0.Final</version>
  <properties>
    <project.build.sourceEncoding>UTF-8</project.build.sourceEncoding>
    <hibernateVersion>3.6.3.Final</hibernateVersion>
  </properties>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>junit</groupId>
        <artifactId>junit</artifactId>
        <version>4.8.2</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
</project>
`

const childPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <parent>
    <groupId>org.hibernate</groupId>
    <artifactId>hibernate-search-parent</artifactId>
    <version>3.4.0.Final</version>
  </parent>
  <artifactId>hibernate-search</artifactId>
  <dependencies>
    <dependency>
      <groupId>org.hibernate</groupId>
      <artifactId>hibernate-core</artifactId>
      <version>${hibernateVersion}</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.11</version>
    </dependency>
  </dependencies>
</project>
`

var (
	parentCoord = Coordinate{"org.hibernate", "hibernate-search-parent", "3.4.0.Final"}
	childCoord  = Coordinate{"org.hibernate", "hibernate-search", "3.4.0.Final"}
)

func searchRepo() *fakeRepo {
	return newFakeRepo(map[string]string{
		parentCoord.String(): parentPOM,
		childCoord.String():  childPOM,
	})
}
