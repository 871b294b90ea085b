package sqlinline

// QJobInsert records a freshly accepted generation job. The document claim
// happens in the same transaction via QDocumentClaimGenerating.
const QJobInsert = `--sql ce19a8f3-0882-4683-8f93-8bba91cc87fe
insert into generation_jobs (id, user_id, document_id, layout_id, status, payload_json)
values ($1, $2, $3, $4, 'pending', $5);
`

// QJobClaimNext hands exactly one pending job to a worker. Skip-locked keeps
// concurrent workers from blocking on, or double-claiming, the same row.
const QJobClaimNext = `--sql 91e7fd6c-4e61-4168-833c-d97ef05d4e60
with next_job as (
    select id
    from generation_jobs
    where status = 'pending'
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update generation_jobs
    set status = 'processing', updated_at = now()
    where id in (select id from next_job)
    returning id, user_id, document_id, layout_id, status, coalesce(error, ''), coalesce(artifact_url, ''), payload_json, created_at, updated_at
)
select * from claimed;
`

const QJobComplete = `--sql 245ff0e2-c2a8-444d-8b49-0a7a2efd86ba
update generation_jobs
set status = 'completed', artifact_url = $2, error = null, updated_at = now()
where id = $1 and status = 'processing';
`

const QJobFail = `--sql 7e1ed494-237f-4c6f-95c9-1b9ca9c2e693
update generation_jobs
set status = 'failed', error = $2, updated_at = now()
where id = $1 and status = 'processing';
`

const QJobByID = `--sql 03906e9a-4c2f-4fd9-8340-fdad4be2af70
select id, user_id, document_id, layout_id, status, coalesce(error, ''), coalesce(artifact_url, ''), payload_json, created_at, updated_at
from generation_jobs
where id = $1 and user_id = $2;
`

// QJobLatestForDocument backs the status poll: the newest job wins, settled
// or not.
const QJobLatestForDocument = `--sql 74914f5c-5b66-496a-b477-f5f03d97b9a0
select id, user_id, document_id, layout_id, status, coalesce(error, ''), coalesce(artifact_url, ''), payload_json, created_at, updated_at
from generation_jobs
where document_id = $1 and user_id = $2
order by created_at desc
limit 1;
`
