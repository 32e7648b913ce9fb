// Package maven provides an HTTP client for Maven-layout artifact repositories.
//
// # Overview
//
// Release manifests (POM files) are located by coordinate under a repository
// root, defaulting to the JBoss public repository ([DefaultRepositoryURL]):
//
//	<base>/org/hibernate/hibernate-core/5.1.0.Final/hibernate-core-5.1.0.Final.pom
//
// # Usage
//
//	client, err := maven.NewClient("", integrations.Options{Attempts: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	raw, err := client.FetchPOM(ctx, "org.hibernate", "hibernate-core", "5.1.0.Final")
//
// The client returns raw bytes; parsing and property resolution happen in
// the manifest package.
package maven
