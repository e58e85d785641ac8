package sqlinline

// Schema is applied in order by `ledgerctl migrate`. Every statement is idempotent.
var Schema = []string{QCreateLedgerMeta, QCreateLedgerEvents}

const QCreateLedgerMeta = `--sql 1d223195-40e4-4b24-a563-0c6073f2889d
create table if not exists ledger_meta (
  id smallint primary key default 1 check (id = 1),
  owner text not null,
  created_at timestamptz not null default now()
);
`

const QCreateLedgerEvents = `--sql b8e261f6-7b81-4f56-87bc-c596e5473c48
create table if not exists ledger_events (
  seq bigint primary key check (seq > 0),
  id uuid not null unique,
  kind text not null check (kind in ('CampaignCreated', 'DonationReceived', 'CampaignDeactivated', 'FundsWithdrawn')),
  campaign_id bigint not null check (campaign_id > 0),
  actor text not null,
  amount numeric(78, 0) not null default 0 check (amount >= 0),
  title text not null default '',
  description text not null default '',
  target numeric(78, 0) not null default 0,
  deadline timestamptz,
  occurred_at timestamptz not null
);
`

// QInitOwner returns the stored owner: the argument when the row was just created,
// the existing owner otherwise.
const QInitOwner = `--sql d0023841-d9b0-4575-a910-c9aa65eb47ba
with ins as (
  insert into ledger_meta(id, owner) values (1, $1::text)
  on conflict (id) do nothing
  returning owner
)
select owner from ins
union all
select owner from ledger_meta where id = 1
limit 1;
`

const QSelectOwner = `--sql 639790fb-79de-4b5c-bffa-2a638056cfd7
select owner from ledger_meta where id = 1;
`

const QInsertEvent = `--sql 287b060c-5746-49d0-89b7-91edb001cfa0
insert into ledger_events(seq, id, kind, campaign_id, actor, amount, title, description, target, deadline, occurred_at)
values ($1::bigint, $2::uuid, $3::text, $4::bigint, $5::text, $6::numeric, $7::text, $8::text, $9::numeric, $10::timestamptz, $11::timestamptz);
`

const QListEvents = `--sql f80bae79-4c13-4d83-b9ae-7db9f88c3c65
select seq, id::text, kind, campaign_id, actor, amount::text, title, description, target::text, deadline, occurred_at
from ledger_events
order by seq asc;
`
