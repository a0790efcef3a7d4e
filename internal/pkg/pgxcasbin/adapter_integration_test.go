//go:build integration

package pgxcasbin

import (
	"context"
	"testing"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const schema = `
create table access_casbin_rules (
	id bigserial primary key,
	ptype text not null,
	v0 text not null default '',
	v1 text not null default '',
	v2 text not null default '',
	v3 text not null default '',
	v4 text not null default '',
	v5 text not null default '',
	unique (ptype, v0, v1, v2, v3, v4, v5)
)`

const testModel = `
[request_definition]
r = sub, obj, act
[policy_definition]
p = sub, obj, act
[policy_effect]
e = some(where (p.eft == allow))
[matchers]
m = r.sub == p.sub && r.obj == p.obj && (p.act == "*" || r.act == p.act)
`

func TestAdapter_Roundtrip(t *testing.T) {
	ctx := context.Background()

	c, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("shopdesk"),
		postgres.WithUsername("shopdesk"),
		postgres.WithPassword("shopdesk"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(c) })

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	m, _ := model.NewModelFromString(testModel)
	e, err := casbin.NewEnforcer(m, NewAdapter(pool))
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}

	if _, err := e.AddPolicies([][]string{{"MAGASIN", "repair", "*"}, {"ADMIN", "consignment", "read"}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := e.RemovePolicy("ADMIN", "consignment", "read"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	m2, _ := model.NewModelFromString(testModel)
	reloaded, err := casbin.NewEnforcer(m2, NewAdapter(pool))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ok, _ := reloaded.Enforce("MAGASIN", "repair", "write"); !ok {
		t.Fatal("expected MAGASIN to write repair after reload")
	}
	if ok, _ := reloaded.Enforce("ADMIN", "consignment", "read"); ok {
		t.Fatal("removed policy still enforced")
	}
}
