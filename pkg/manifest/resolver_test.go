package manifest

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/matzehuels/relcat/pkg/errors"
)

func TestResolveParentProperties(t *testing.T) {
	store := NewStore(searchRepo(), nil, nil)
	r := NewResolver(store, Options{})

	deps, err := r.Resolve(context.Background(), childCoord)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got := deps.Version("org.hibernate", "hibernate-core"); got != "3.6.3.Final" {
		t.Errorf("hibernate-core = %q, want 3.6.3.Final from the parent property", got)
	}
	if got := deps.Value("project.build.sourceEncoding"); got != "UTF-8" {
		t.Errorf("Value(sourceEncoding) = %q, want UTF-8", got)
	}
}

func TestResolveFirstDeclarationWins(t *testing.T) {
	store := NewStore(searchRepo(), nil, nil)
	r := NewResolver(store, Options{})

	deps, err := r.Resolve(context.Background(), childCoord)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := deps.Version("junit", "junit"); got != "4.8.2" {
		t.Errorf("junit = %q, want the parent's 4.8.2", got)
	}
	if deps.Len() != 2 {
		t.Errorf("Len() = %d, want 2", deps.Len())
	}
}

func TestResolveChildPropertyOverridesParent(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"org.example:parent:1": `<project><properties><v>1.0</v></properties></project>`,
		"org.example:child:1": `<project>
  <parent><groupId>org.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
  <properties><v>2.0</v></properties>
  <dependencies>
    <dependency><groupId>org.example</groupId><artifactId>lib</artifactId><version>${v}</version></dependency>
  </dependencies>
</project>`,
	})
	r := NewResolver(NewStore(repo, nil, nil), Options{})

	deps, err := r.Resolve(context.Background(), Coordinate{"org.example", "child", "1"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := deps.Version("org.example", "lib"); got != "2.0" {
		t.Errorf("lib = %q, want 2.0", got)
	}
	if got := deps.Value("v"); got != "2.0" {
		t.Errorf("Value(v) = %q, want 2.0", got)
	}
}

func TestResolveUnmatchedPlaceholder(t *testing.T) {
	repo := newFakeRepo(map[string]string{
		"org.example:app:1": `<project>
  <dependencies>
    <dependency><groupId>org.example</groupId><artifactId>lib</artifactId><version>${undefined}</version></dependency>
    <dependency><groupId>org.example</groupId><artifactId>lib</artifactId><version>3.1</version></dependency>
    <dependency><groupId>org.example</groupId><artifactId>other</artifactId><version>${nope}</version></dependency>
  </dependencies>
</project>`,
	})
	r := NewResolver(NewStore(repo, nil, nil), Options{})

	deps, err := r.Resolve(context.Background(), Coordinate{"org.example", "app", "1"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := deps.Version("org.example", "lib"); got != "3.1" {
		t.Errorf("lib = %q, want 3.1 from the later declaration", got)
	}
	if _, ok := deps.Map()["org.example:other"]; ok {
		t.Error("unresolved placeholder should not be recorded")
	}
}

func TestResolveStrictness(t *testing.T) {
	missing := Coordinate{"org.hibernate", "hibernate-core", "0.Final"}

	tests := []struct {
		name    string
		strict  bool
		wantErr bool
	}{
		{"permissive", false, false},
		{"strict", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(NewStore(newFakeRepo(nil), nil, nil), Options{Strict: tt.strict})
			deps, err := r.Resolve(context.Background(), missing)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Resolve() error: %v", err)
				}
				if deps == nil || deps.Len() != 0 || len(deps.Properties) != 0 {
					t.Errorf("Resolve() = %+v, want empty dependencies", deps)
				}
				return
			}

			var fe *FetchError
			if !stderrors.As(err, &fe) {
				t.Fatalf("Resolve() error = %v, want *FetchError", err)
			}
			if !errors.Is(err, errors.ErrCodeManifestUnavailable) {
				t.Errorf("code = %s, want MANIFEST_UNAVAILABLE", errors.GetCode(err))
			}
		})
	}
}

func TestResolveMissingParent(t *testing.T) {
	repo := newFakeRepo(map[string]string{childCoord.String(): childPOM})

	r := NewResolver(NewStore(repo, nil, nil), Options{})
	deps, err := r.Resolve(context.Background(), childCoord)
	if err != nil {
		t.Fatalf("permissive Resolve() error: %v", err)
	}
	if got := deps.Version("junit", "junit"); got != "4.11" {
		t.Errorf("junit = %q, want the child's 4.11", got)
	}
	if _, ok := deps.Map()["org.hibernate:hibernate-core"]; ok {
		t.Error("placeholder without parent property should not be recorded")
	}

	strict := NewResolver(NewStore(repo, nil, nil), Options{Strict: true})
	if _, err := strict.Resolve(context.Background(), childCoord); err == nil {
		t.Error("strict Resolve() with missing parent expected error")
	}
}

func TestResolveTwiceFetchesOnce(t *testing.T) {
	repo := searchRepo()
	r := NewResolver(NewStore(repo, nil, nil), Options{})
	ctx := context.Background()

	first, err := r.Resolve(ctx, childCoord)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	second, err := r.Resolve(ctx, childCoord)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got := repo.count(childCoord.String()); got != 1 {
		t.Errorf("child fetches = %d, want 1", got)
	}
	if got := repo.count(parentCoord.String()); got != 1 {
		t.Errorf("parent fetches = %d, want 1", got)
	}
	if first.Version("junit", "junit") != second.Version("junit", "junit") || first.Len() != second.Len() {
		t.Error("resolutions differ")
	}
}
