package sqlinline

const QLeadInsert = `--sql deb3261e-8bf6-4060-aa28-c5e798f923e9
insert into leads (id, document_id, email, name, company)
values ($1, $2, $3, $4, $5)
on conflict (document_id, email) do update
set name = excluded.name, company = excluded.company
returning id;
`

const QLeadListForDocument = `--sql 3469a22e-b434-490e-b0fe-9bfd403ef6c6
select l.id, l.document_id, l.email, coalesce(l.name, ''), coalesce(l.company, ''), l.created_at
from leads l
join documents d on d.id = l.document_id
where l.document_id = $1 and d.owner_id = $2
order by l.created_at desc;
`

const QDownloadInsert = `--sql 4902abf3-e741-468c-b450-f7c971e340e8
insert into downloads (id, document_id, lead_id, ip_address, country_code)
values ($1, $2, $3, $4, $5);
`
